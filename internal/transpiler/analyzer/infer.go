package analyzer

import (
	"github.com/hashicorp/go-set/v3"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
)

func (p *Program) typeOfExpr(e jsast.Expr) transpiler.Type {
	if e == nil {
		return transpiler.AnyType
	}
	if t, ok := p.nodeTypes[e]; ok {
		return t
	}
	t := p.inferExpr(e)
	p.nodeTypes[e] = t
	return t
}

func (p *Program) inferExpr(e jsast.Expr) transpiler.Type {
	switch e := e.(type) {
	case *jsast.StringLit, *jsast.NumberLit, *jsast.BoolLit, *jsast.NullLit, *jsast.UndefinedLit:
		return literalType(e)
	case *jsast.Ident:
		if sym := p.symbolAt(e); sym != nil {
			return p.valueType(sym)
		}
	case *jsast.PropertyAccess:
		if sym := p.propertySymbol(e); sym != nil {
			return p.valueType(sym)
		}
		if _, ok := p.typeOfExpr(e.X).(*transpiler.ArrayType); ok && e.Name == "length" {
			return transpiler.NumberType
		}
	case *jsast.ElementAccess:
		switch x := p.typeOfExpr(e.X).(type) {
		case *transpiler.ArrayType:
			return x.Elem
		case *transpiler.AnonymousType:
			if x.StringIndex != nil {
				return x.StringIndex
			}
			if x.NumberIndex != nil {
				return x.NumberIndex
			}
		}
	case *jsast.Call:
		if _, ok := e.Fn.(*jsast.Super); ok {
			return transpiler.VoidType
		}
		if fn, ok := p.typeOfExpr(e.Fn).(*transpiler.AnonymousType); ok && len(fn.Calls) > 0 {
			return fn.Calls[0].Return
		}
	case *jsast.New:
		if ctor, ok := p.typeOfExpr(e.X).(*transpiler.AnonymousType); ok && len(ctor.Constructs) > 0 {
			return ctor.Constructs[0].Return
		}
	case *jsast.ObjectLit:
		obj := &transpiler.AnonymousType{}
		for _, prop := range e.Props {
			name, ok := jsast.StaticName(prop.Key)
			if !ok {
				continue
			}
			obj.Props = append(obj.Props, &transpiler.Property{Name: name, Type: widen(p.typeOfExpr(prop.Value))})
		}
		return obj
	case *jsast.ArrayLit:
		var elems []transpiler.Type
		for _, el := range e.Elems {
			elems = append(elems, widen(p.typeOfExpr(el)))
		}
		return &transpiler.ArrayType{Elem: unionOf(elems)}
	case *jsast.Arrow, *jsast.FuncExpr:
		return &transpiler.AnonymousType{Calls: []*transpiler.Signature{p.signatureOf(e)}}
	case *jsast.Binary:
		return p.binaryType(e)
	case *jsast.Unary:
		switch e.Op {
		case "!", "delete":
			return transpiler.BooleanType
		case "typeof":
			return transpiler.StringType
		case "void":
			return transpiler.UndefinedType
		case "-", "+", "~", "++", "--":
			return transpiler.NumberType
		}
	case *jsast.Paren:
		return p.typeOfExpr(e.X)
	case *jsast.This:
		return p.thisType(e)
	}
	return transpiler.AnyType
}

func (p *Program) binaryType(e *jsast.Binary) transpiler.Type {
	switch e.Op {
	case "+":
		x, y := widen(p.typeOfExpr(e.X)), widen(p.typeOfExpr(e.Y))
		if x == transpiler.StringType || y == transpiler.StringType {
			return transpiler.StringType
		}
		if x == transpiler.NumberType && y == transpiler.NumberType {
			return transpiler.NumberType
		}
		return transpiler.AnyType
	case "-", "*", "/", "%", "**", "|", "&", "^", "<<", ">>", ">>>":
		return transpiler.NumberType
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "in", "instanceof":
		return transpiler.BooleanType
	case "&&", "||", "??":
		return unionOf([]transpiler.Type{widen(p.typeOfExpr(e.X)), widen(p.typeOfExpr(e.Y))})
	case "=":
		return p.typeOfExpr(e.Y)
	}
	return transpiler.AnyType
}

// inferReturn unions the types of the return statements of body, not
// counting nested functions.
func (p *Program) inferReturn(body *jsast.Block) transpiler.Type {
	var types []transpiler.Type
	var visit func(stmts []jsast.Stmt)
	visit = func(stmts []jsast.Stmt) {
		for _, s := range stmts {
			switch s := s.(type) {
			case *jsast.ReturnStmt:
				if s.X == nil {
					types = append(types, transpiler.VoidType)
				} else {
					types = append(types, widen(p.typeOfExpr(s.X)))
				}
			case *jsast.Block:
				visit(s.Stmts)
			case *jsast.IfStmt:
				if s.Then != nil {
					visit(s.Then.Stmts)
				}
				if s.Else != nil {
					visit([]jsast.Stmt{s.Else})
				}
			}
		}
	}
	visit(body.Stmts)
	if len(types) == 0 {
		return transpiler.VoidType
	}
	return unionOf(types)
}

// widen drops literal types to their base type and enum members to their
// enum.
func widen(t transpiler.Type) transpiler.Type {
	switch t := t.(type) {
	case *transpiler.LiteralType:
		switch t.Value.(type) {
		case string:
			return transpiler.StringType
		case float64:
			return transpiler.NumberType
		case bool:
			return transpiler.BooleanType
		case transpiler.BigIntLiteral:
			return transpiler.BigIntType
		}
	case *transpiler.EnumLiteralType:
		if enum := t.Enum(); enum != nil {
			return &transpiler.EnumType{TypeInfo: transpiler.TypeInfo{Sym: enum}}
		}
	}
	return t
}

// unionOf dedupes types by their printed form.
func unionOf(types []transpiler.Type) transpiler.Type {
	var out []transpiler.Type
	seen := set.New[string](len(types))
	for _, t := range types {
		if seen.Insert(t.String()) {
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return transpiler.AnyType
	case 1:
		return out[0]
	}
	return &transpiler.UnionType{Types: out}
}
