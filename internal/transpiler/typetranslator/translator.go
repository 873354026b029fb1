// Package typetranslator converts checker types into Closure type
// expressions.
package typetranslator

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-set/v3"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
)

// Unknown is the Closure unknown type.
const Unknown = "?"

// DeclarationTracker is told about symbols that have no local name yet.
// It may register one in the alias table, for example by importing the
// declaring module for its types.
type DeclarationTracker interface {
	EnsureSymbolDeclared(sym *transpiler.Symbol)
}

// Translator converts types to Closure type expressions for one file.
// All naming goes through Aliases; symbols declared elsewhere are passed
// to Tracker so it can make them nameable.
type Translator struct {
	Checker      transpiler.Checker
	Aliases      *AliasTable
	UnknownPaths *set.Set[string]
	Tracker      DeclarationTracker
	FileName     string
	Untyped      bool
	IsForExterns bool
	Warn         func(msg string)

	seen *set.Set[transpiler.Type]
}

// Translate returns the Closure type expression for t.
func (tr *Translator) Translate(t transpiler.Type) (string, error) {
	if tr.Untyped {
		return Unknown, nil
	}
	tr.seen = set.New[transpiler.Type](4)
	defer func() { tr.seen = nil }()
	return tr.translate(t)
}

// TranslateTypedef returns the expansion of the type alias t is the body
// of. References to the alias inside the body keep using its name.
func (tr *Translator) TranslateTypedef(t transpiler.Type) (string, error) {
	if tr.Untyped {
		return Unknown, nil
	}
	tr.seen = set.New[transpiler.Type](4)
	defer func() { tr.seen = nil }()
	if t == nil || tr.isAlwaysUnknown(t.Symbol()) {
		return Unknown, nil
	}
	return tr.translateShape(t)
}

func (tr *Translator) warn(format string, args ...any) {
	if tr.Warn != nil {
		tr.Warn(fmt.Sprintf(format, args...))
	}
}

// isAlwaysUnknown reports whether sym is declared in a file listed in
// UnknownPaths.
func (tr *Translator) isAlwaysUnknown(sym *transpiler.Symbol) bool {
	if sym == nil || tr.UnknownPaths == nil || tr.UnknownPaths.Empty() {
		return false
	}
	sym = transpiler.ResolveAlias(tr.Checker, sym)
	return sym != nil && tr.UnknownPaths.Contains(sym.FileName)
}

// SymbolToString returns the name sym is reachable by in this file, or ""
// when it cannot be named.
func (tr *Translator) SymbolToString(sym *transpiler.Symbol) string {
	if sym == nil {
		return ""
	}
	if name, ok := tr.Aliases.Get(sym); ok {
		return name
	}
	if sym.IsAlias() {
		if target := transpiler.ResolveAlias(tr.Checker, sym); target != nil && target != sym {
			return tr.SymbolToString(target)
		}
		return ""
	}
	// Members of classes, enums and namespaces are named through their
	// parent, which is how merged declarations are flattened.
	if p := sym.Parent; p != nil && !p.Flags.Has(transpiler.SymbolModule) {
		parent := tr.SymbolToString(p)
		if parent == "" {
			return ""
		}
		return parent + "." + sym.Name
	}
	if sym.Flags.Has(transpiler.SymbolGlobal) || sym.FileName == "" || sym.FileName == tr.FileName {
		return sym.Name
	}
	if tr.Tracker != nil {
		tr.Tracker.EnsureSymbolDeclared(sym)
		if name, ok := tr.Aliases.Get(sym); ok {
			return name
		}
	}
	return ""
}

func (tr *Translator) translate(t transpiler.Type) (string, error) {
	if t == nil {
		return Unknown, nil
	}
	if tr.isAlwaysUnknown(t.Symbol()) || tr.isAlwaysUnknown(t.AliasSymbol()) {
		return Unknown, nil
	}
	if alias := t.AliasSymbol(); alias != nil {
		if name := tr.SymbolToString(alias); name != "" {
			return name, nil
		}
	}
	return tr.translateShape(t)
}

func (tr *Translator) translateShape(t transpiler.Type) (string, error) {
	switch t := t.(type) {
	case *transpiler.IntrinsicType:
		return translateIntrinsic(t.Kind)
	case *transpiler.LiteralType:
		switch t.Value.(type) {
		case string:
			return "string", nil
		case float64:
			return "number", nil
		case bool:
			return "boolean", nil
		case transpiler.BigIntLiteral:
			return "bigint", nil
		}
		return "", errors.AssertionFailedf("unexpected literal value %T", t.Value)
	case *transpiler.EnumLiteralType:
		return tr.translateEnum(t.Enum()), nil
	case *transpiler.EnumType:
		return tr.translateEnum(t.Sym), nil
	case *transpiler.UnionType:
		return tr.translateUnion(t.Types)
	case *transpiler.IntersectionType:
		tr.warn("intersection types are not supported")
		return Unknown, nil
	case *transpiler.UnsupportedType:
		tr.warn("unsupported type: %s", t.Kind)
		return Unknown, nil
	case *transpiler.TypeParameter:
		if t.IsThisType {
			if tr.IsForExterns {
				return Unknown, nil
			}
			return "THIS", nil
		}
		if t.Sym == nil {
			return Unknown, nil
		}
		if name, ok := tr.Aliases.Get(t.Sym); ok {
			return name, nil
		}
		return t.Sym.Name, nil
	case *transpiler.InterfaceType:
		return tr.translateNamed(t.Sym), nil
	case *transpiler.TypeReference:
		if t.Target == nil {
			return "", errors.AssertionFailedf("type reference without target")
		}
		// Type arguments have no place in a reference annotation.
		return tr.translateNamed(t.Target.Sym), nil
	case *transpiler.ArrayType:
		elem, err := tr.translate(t.Elem)
		if err != nil {
			return "", err
		}
		return "!Array<" + elem + ">", nil
	case *transpiler.TupleType:
		if len(t.Elems) == 0 {
			return "!Array<?>", nil
		}
		elem, err := tr.translateUnion(t.Elems)
		if err != nil {
			return "", err
		}
		return "!Array<" + elem + ">", nil
	case *transpiler.AnonymousType:
		return tr.translateAnonymous(t)
	}
	return "", errors.AssertionFailedf("unhandled type shape %T", t)
}

func translateIntrinsic(k transpiler.IntrinsicKind) (string, error) {
	switch k {
	case transpiler.IntrinsicAny, transpiler.IntrinsicNever:
		return Unknown, nil
	case transpiler.IntrinsicUnknown:
		return "*", nil
	case transpiler.IntrinsicString:
		return "string", nil
	case transpiler.IntrinsicNumber:
		return "number", nil
	case transpiler.IntrinsicBoolean:
		return "boolean", nil
	case transpiler.IntrinsicBigInt:
		return "bigint", nil
	case transpiler.IntrinsicESSymbol:
		return "symbol", nil
	case transpiler.IntrinsicVoid:
		return "void", nil
	case transpiler.IntrinsicUndefined:
		return "undefined", nil
	case transpiler.IntrinsicNull:
		return "null", nil
	case transpiler.IntrinsicNonPrimitive:
		return "!Object", nil
	}
	return "", errors.AssertionFailedf("unhandled intrinsic kind %d", int(k))
}

func (tr *Translator) translateEnum(enum *transpiler.Symbol) string {
	if enum == nil {
		return Unknown
	}
	name := tr.SymbolToString(enum)
	if name == "" {
		tr.warn("enum %s cannot be referenced here", enum.Name)
		return Unknown
	}
	return name
}

func (tr *Translator) translateNamed(sym *transpiler.Symbol) string {
	if sym == nil {
		tr.warn("named type without a symbol")
		return Unknown
	}
	name := tr.SymbolToString(sym)
	if name == "" {
		tr.warn("type %s cannot be referenced here", sym.Name)
		return Unknown
	}
	if name == Unknown {
		return name
	}
	return "!" + name
}

// translateUnion translates each member once, keeping first occurrences.
func (tr *Translator) translateUnion(types []transpiler.Type) (string, error) {
	var parts []string
	seen := set.New[string](len(types))
	for _, m := range types {
		s, err := tr.translate(m)
		if err != nil {
			return "", err
		}
		if seen.Insert(s) {
			parts = append(parts, s)
		}
	}
	switch len(parts) {
	case 0:
		return Unknown, nil
	case 1:
		return parts[0], nil
	}
	return "(" + strings.Join(parts, "|") + ")", nil
}

func (tr *Translator) translateAnonymous(t *transpiler.AnonymousType) (string, error) {
	if sym := t.Sym; sym != nil && sym.Flags.Has(transpiler.SymbolClass|transpiler.SymbolEnum|transpiler.SymbolNamespace) {
		if name := tr.SymbolToString(sym); name != "" && name != Unknown {
			return "typeof " + name, nil
		}
	}

	if tr.seen.Contains(t) {
		return Unknown, nil
	}
	tr.seen.Insert(t)
	defer tr.seen.Remove(t)

	if len(t.Constructs) > 0 {
		return tr.constructorToClosure(t.Constructs[0])
	}

	callable := len(t.Calls) > 0
	indexable := t.StringIndex != nil || t.NumberIndex != nil

	var fields []string
	for _, p := range t.Props {
		if !jsast.IsValidPropertyName(p.Name) {
			tr.warn("omitting inexpressible property name: %s", p.Name)
			continue
		}
		typ, err := tr.translate(p.Type)
		if err != nil {
			return "", err
		}
		fields = append(fields, p.Name+": "+typ)
	}

	if len(fields) == 0 {
		switch {
		case callable && !indexable:
			if len(t.Calls) > 1 {
				tr.warn("overloaded function types are not supported")
				return "!Function", nil
			}
			return tr.signatureToClosure(t.Calls[0])
		case indexable && !callable:
			keyType, valType := "string", t.StringIndex
			if valType == nil {
				keyType, valType = "number", t.NumberIndex
			}
			val, err := tr.translate(valType)
			if err != nil {
				return "", err
			}
			return "!Object<" + keyType + "," + val + ">", nil
		case !callable && !indexable:
			return "*", nil
		}
	}

	if !callable && !indexable {
		return "{" + strings.Join(fields, ", ") + "}", nil
	}
	tr.warn("unhandled anonymous type with both properties and call or index signatures")
	return Unknown, nil
}

// signatureToClosure renders a call signature as a Closure function
// type. Type parameters of the signature become unknown for the rest of
// the file, since function types cannot be generic.
func (tr *Translator) signatureToClosure(sig *transpiler.Signature) (string, error) {
	for _, tp := range sig.TypeParams {
		if tp.Sym != nil {
			tr.Aliases.MarkUnknown(tp.Sym)
		}
	}
	params, err := tr.convertParams(sig)
	if err != nil {
		return "", err
	}
	ret := "void"
	if sig.Return != nil {
		if ret, err = tr.translate(sig.Return); err != nil {
			return "", err
		}
	}
	return "function(" + params + "): " + ret, nil
}

func (tr *Translator) constructorToClosure(sig *transpiler.Signature) (string, error) {
	for _, tp := range sig.TypeParams {
		if tp.Sym != nil {
			tr.Aliases.MarkUnknown(tp.Sym)
		}
	}
	ret, err := tr.translate(sig.Return)
	if err != nil {
		return "", err
	}
	params, err := tr.convertParams(sig)
	if err != nil {
		return "", err
	}
	out := "function(new:" + strings.TrimPrefix(ret, "!")
	if params != "" {
		out += ", " + params
	}
	return out + ")", nil
}

func (tr *Translator) convertParams(sig *transpiler.Signature) (string, error) {
	var parts []string
	if sig.This != nil {
		this, err := tr.translate(sig.This)
		if err != nil {
			return "", err
		}
		parts = append(parts, "this:"+this)
	}
	for _, p := range sig.Params {
		if p.Rest {
			elem, err := tr.translate(RestElementType(p.Type))
			if err != nil {
				return "", err
			}
			parts = append(parts, "..."+elem)
			break
		}
		s, err := tr.translate(p.Type)
		if err != nil {
			return "", err
		}
		if p.Optional {
			s += "="
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}

// RestElementType returns the element type of a rest parameter's array
// type, or any when it is not an array.
func RestElementType(t transpiler.Type) transpiler.Type {
	switch t := t.(type) {
	case *transpiler.ArrayType:
		return t.Elem
	case *transpiler.TupleType:
		switch len(t.Elems) {
		case 0:
			return transpiler.AnyType
		case 1:
			return t.Elems[0]
		}
		return &transpiler.UnionType{Types: t.Elems}
	case *transpiler.TypeParameter:
		if t.Constraint != nil {
			return RestElementType(t.Constraint)
		}
	}
	return transpiler.AnyType
}
