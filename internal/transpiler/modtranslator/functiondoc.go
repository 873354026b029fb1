package modtranslator

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-set/v3"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
	"martianoff/tsclosure/internal/transpiler/jsdoc"
	"martianoff/tsclosure/internal/transpiler/typetranslator"
	"martianoff/tsclosure/tscerr"
)

// FunctionDoc is the merged documentation of a function-like declaration
// and its overloads.
type FunctionDoc struct {
	Tags []*jsdoc.Tag
	// ParamNames holds one name per emitted @param tag.
	ParamNames []string
	// ThisReturn is the this type when the function returns it and no
	// explicit this parameter is declared.
	ThisReturn transpiler.Type
}

// functionLike is the part of a declaration the merge looks at.
type functionLike struct {
	doc        string
	typeParams []*jsast.TypeParam
	hasBody    bool
	ctor       bool
	setter     bool
	abstract   bool
}

func describe(decl jsast.Node) (functionLike, bool) {
	switch d := decl.(type) {
	case *jsast.FuncDecl:
		return functionLike{doc: d.Doc, typeParams: d.TypeParams, hasBody: d.Body != nil}, true
	case *jsast.MethodDecl:
		return functionLike{
			doc:        d.Doc,
			typeParams: d.TypeParams,
			hasBody:    d.Body != nil,
			setter:     d.Kind == jsast.MethodSetter,
			abstract:   d.Mods.Has(jsast.ModAbstract),
		}, true
	case *jsast.Constructor:
		return functionLike{doc: d.Doc, hasBody: d.Body != nil, ctor: true}, true
	case *jsast.MethodSignature:
		return functionLike{doc: d.Doc, typeParams: d.TypeParams}, true
	case *jsast.CallSignature:
		return functionLike{typeParams: d.TypeParams}, true
	case *jsast.ConstructSignature:
		return functionLike{typeParams: d.TypeParams, ctor: true}, true
	case *jsast.Arrow, *jsast.FuncExpr:
		return functionLike{hasBody: true}, true
	}
	return functionLike{}, false
}

// FunctionTypeJSDoc merges the signatures of decls into one set of tags.
//
// Parameters are merged by position: names that differ are joined with
// "_or_" and types are unioned. A parameter is optional when any overload
// may omit it or an earlier parameter is optional, and the list ends at the
// first rest parameter. When the last declaration is an implementation
// following overload signatures, only the overloads contribute types and
// the implementation contributes the parameter names.
func (m *ModuleTypeTranslator) FunctionTypeJSDoc(decls []jsast.Node, extraTags []*jsdoc.Tag) (*FunctionDoc, error) {
	if len(decls) == 0 {
		return nil, errors.AssertionFailedf("function documentation requested without declarations")
	}
	infos := make([]functionLike, len(decls))
	for i, d := range decls {
		info, ok := describe(d)
		if !ok {
			return nil, m.internalError(d, errors.AssertionFailedf("%T is not function-like", d))
		}
		infos[i] = info
	}

	sigDecls, sigInfos := decls, infos
	var impl jsast.Node
	if n := len(decls); n > 1 && infos[n-1].hasBody {
		impl = decls[n-1]
		sigDecls, sigInfos = decls[:n-1], infos[:n-1]
	}

	doc := &FunctionDoc{}
	seen := set.New[string](len(extraTags) + 4)
	addTag := func(t *jsdoc.Tag) {
		if seen.Insert(tagKey(t)) {
			doc.Tags = append(doc.Tags, t)
		}
	}
	for _, t := range extraTags {
		addTag(t)
	}

	paramText := map[string]string{}
	var returnText []string
	for i, d := range decls {
		comment, warnings := jsdoc.Parse(infos[i].doc)
		for _, w := range warnings {
			pos := position(d)
			m.diags.Warn(tscerr.CategoryJSDoc, pos.Line, pos.Column, w)
		}
		if comment == nil {
			continue
		}
		for _, t := range comment.Tags {
			switch t.TagName {
			case "param":
				if _, ok := paramText[t.ParameterName]; !ok {
					paramText[t.ParameterName] = t.Text
				}
			case "return":
				if t.Text != "" {
					returnText = append(returnText, t.Text)
				}
			default:
				addTag(t)
			}
		}
	}

	var (
		paramTags    [][]*jsdoc.Tag
		returnTags   []*jsdoc.Tag
		hasThisParam bool
		templated    bool
	)
	for i, d := range sigDecls {
		info := sigInfos[i]
		if info.abstract {
			addTag(&jsdoc.Tag{TagName: "abstract"})
		}
		if !info.ctor && len(info.typeParams) > 0 && !templated {
			names := make([]string, len(info.typeParams))
			for j, tp := range info.typeParams {
				names[j] = tp.Name.Name
			}
			addTag(&jsdoc.Tag{TagName: "template", Text: strings.Join(names, ", ")})
			templated = true
		}

		sig := m.checker.SignatureFromDeclaration(m.original(d))
		if sig == nil {
			return nil, m.internalError(d, errors.AssertionFailedf("no signature for %T", d))
		}
		if sig.This != nil {
			hasThisParam = true
			this, err := m.TypeToClosure(d, sig.This)
			if err != nil {
				return nil, err
			}
			addTag(&jsdoc.Tag{TagName: "this", Type: this})
		}
		for j, p := range sig.Params {
			if j == len(paramTags) {
				paramTags = append(paramTags, nil)
			}
			typ := p.Type
			if p.Rest {
				typ = typetranslator.RestElementType(p.Type)
			}
			s, err := m.TypeToClosure(d, typ)
			if err != nil {
				return nil, err
			}
			paramTags[j] = append(paramTags[j], &jsdoc.Tag{
				TagName:       "param",
				ParameterName: p.Name,
				Type:          s,
				Optional:      !p.Rest && (p.Optional || j >= sig.MinArgs),
				RestParam:     p.Rest,
				Text:          paramText[p.Name],
			})
		}
		if info.ctor || info.setter {
			continue
		}
		ret := sig.Return
		if ret == nil {
			ret = transpiler.VoidType
		}
		if isThisType(ret) {
			doc.ThisReturn = ret
		}
		s, err := m.TypeToClosure(d, ret)
		if err != nil {
			return nil, err
		}
		returnTags = append(returnTags, &jsdoc.Tag{TagName: "return", Type: s})
	}

	if doc.ThisReturn != nil && (hasThisParam || m.isForExterns) {
		doc.ThisReturn = nil
	}
	if doc.ThisReturn != nil {
		addTag(&jsdoc.Tag{TagName: "template", Text: "THIS"})
		addTag(&jsdoc.Tag{TagName: "this", Type: "THIS"})
	}

	var implParams []*transpiler.SignatureParam
	if impl != nil {
		if sig := m.checker.SignatureFromDeclaration(m.original(impl)); sig != nil {
			implParams = sig.Params
		}
	}

	optional := false
	for j, group := range paramTags {
		if j < len(implParams) && implParams[j].Rest {
			// The implementation collects everything from here on.
			var rest []*jsdoc.Tag
			for _, g := range paramTags[j:] {
				rest = append(rest, g...)
			}
			group = rest
		}
		merged, err := jsdoc.Merge(group)
		if err != nil {
			return nil, m.internalError(decls[0], err)
		}
		if j < len(implParams) {
			merged.ParameterName = implParams[j].Name
			merged.RestParam = merged.RestParam || implParams[j].Rest
			if t, ok := paramText[merged.ParameterName]; ok && merged.Text == "" {
				merged.Text = t
			}
		}
		if merged.ParameterName == "" {
			merged.ParameterName = "__" + strconv.Itoa(j)
		}
		optional = optional || merged.Optional || len(group) < len(sigDecls)
		merged.Optional = optional && !merged.RestParam
		doc.Tags = append(doc.Tags, merged)
		doc.ParamNames = append(doc.ParamNames, merged.ParameterName)
		if merged.RestParam {
			break
		}
	}

	if len(returnTags) > 0 {
		merged, err := jsdoc.Merge(returnTags)
		if err != nil {
			return nil, m.internalError(decls[0], err)
		}
		merged.Text = strings.Join(returnText, " / ")
		doc.Tags = append(doc.Tags, merged)
	}
	return doc, nil
}

func isThisType(t transpiler.Type) bool {
	tp, ok := t.(*transpiler.TypeParameter)
	return ok && tp.IsThisType
}

func tagKey(t *jsdoc.Tag) string {
	return t.TagName + "\x00" + t.ParameterName + "\x00" + t.Type + "\x00" + t.Text
}
