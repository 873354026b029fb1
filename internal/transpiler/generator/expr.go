package generator

import (
	"strings"

	"martianoff/tsclosure/internal/jsast"
)

// Operator precedence, higher binds tighter.
const (
	precLowest = iota
	precAssign
	precNullish
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precCall
	precPrimary
)

var binaryPrec = map[string]int{
	"??": precNullish,
	"||": precOr,
	"&&": precAnd,
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"in": precRelational, "instanceof": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
	"**": precExponent,
}

func opPrec(op string) int {
	if p, ok := binaryPrec[op]; ok {
		return p
	}
	// Assignment operators.
	return precAssign
}

func rightAssoc(op string) bool {
	return op == "**" || opPrec(op) == precAssign
}

func precOf(e jsast.Expr) int {
	switch e := e.(type) {
	case *jsast.Binary:
		return opPrec(e.Op)
	case *jsast.Unary:
		return precUnary
	case *jsast.Arrow:
		return precAssign
	case *jsast.Call, *jsast.New, *jsast.PropertyAccess, *jsast.ElementAccess:
		return precCall
	}
	return precPrimary
}

// expr prints e, parenthesized when it binds looser than min.
func (p *printer) expr(e jsast.Expr, min int) string {
	s := p.exprText(e)
	if precOf(e) < min {
		return "(" + s + ")"
	}
	return s
}

func (p *printer) exprText(e jsast.Expr) string {
	switch e := e.(type) {
	case nil:
		return ""
	case *jsast.Ident:
		return e.Name
	case *jsast.This:
		return "this"
	case *jsast.Super:
		return "super"
	case *jsast.StringLit:
		return quote(e.Value)
	case *jsast.NumberLit:
		return jsast.FormatNumber(e.Value)
	case *jsast.BoolLit:
		if e.Value {
			return "true"
		}
		return "false"
	case *jsast.NullLit:
		return "null"
	case *jsast.UndefinedLit:
		return "undefined"
	case *jsast.PropertyAccess:
		x := p.expr(e.X, precCall)
		if _, isNum := e.X.(*jsast.NumberLit); isNum {
			x = "(" + x + ")"
		}
		if !jsast.IsValidPropertyName(e.Name) {
			return x + "[" + quote(e.Name) + "]"
		}
		return x + "." + e.Name
	case *jsast.ElementAccess:
		return p.expr(e.X, precCall) + "[" + p.expr(e.Index, precLowest) + "]"
	case *jsast.Call:
		return p.expr(e.Fn, precCall) + "(" + p.args(e.Args) + ")"
	case *jsast.New:
		x := p.expr(e.X, precCall)
		if _, isCall := e.X.(*jsast.Call); isCall {
			x = "(" + x + ")"
		}
		return "new " + x + "(" + p.args(e.Args) + ")"
	case *jsast.ObjectLit:
		return p.object(e)
	case *jsast.ArrayLit:
		return p.array(e)
	case *jsast.Arrow:
		head := "(" + p.params(e.Params) + ") => "
		if e.Body != nil {
			return head + p.block(e.Body)
		}
		body := p.expr(e.Expr, precAssign)
		if _, isObj := e.Expr.(*jsast.ObjectLit); isObj {
			body = "(" + body + ")"
		}
		return head + body
	case *jsast.FuncExpr:
		head := "function"
		if e.Name != nil {
			head += " " + e.Name.Name
		}
		return head + "(" + p.params(e.Params) + ") " + p.block(e.Body)
	case *jsast.Binary:
		prec := opPrec(e.Op)
		left, right := prec, prec+1
		if rightAssoc(e.Op) {
			left, right = prec+1, prec
		}
		return p.expr(e.X, left) + " " + e.Op + " " + p.expr(e.Y, right)
	case *jsast.Unary:
		x := p.expr(e.X, precUnary)
		switch {
		case e.Op == "typeof" || e.Op == "void" || e.Op == "delete":
			return e.Op + " " + x
		case (e.Op == "-" || e.Op == "+") && strings.HasPrefix(x, e.Op):
			return e.Op + " " + x
		}
		return e.Op + x
	case *jsast.Paren:
		return "(" + p.expr(e.X, precLowest) + ")"
	}
	p.fail(e, "%T cannot be printed as JavaScript", e)
	return ""
}

func (p *printer) args(args []jsast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = p.expr(a, precAssign)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) object(o *jsast.ObjectLit) string {
	if len(o.Props) == 0 {
		return "{}"
	}
	if !o.Multiline {
		parts := make([]string, len(o.Props))
		for i, prop := range o.Props {
			parts[i] = p.objectKey(prop.Key) + ": " + p.expr(prop.Value, precAssign)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	inner := &printer{indent: p.indent + 1}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, prop := range o.Props {
		sb.WriteString(inner.pad())
		sb.WriteString(inner.objectKey(prop.Key) + ": " + inner.expr(prop.Value, precAssign))
		sb.WriteString(",\n")
	}
	if inner.err != nil && p.err == nil {
		p.err = inner.err
	}
	sb.WriteString(p.pad() + "}")
	return sb.String()
}

func (p *printer) objectKey(k jsast.PropertyName) string {
	switch k := k.(type) {
	case *jsast.Ident:
		return k.Name
	case *jsast.StringLit:
		if jsast.IsValidIdentifier(k.Value) {
			return k.Value
		}
		return quote(k.Value)
	}
	return p.propertyName(k)
}

func (p *printer) array(a *jsast.ArrayLit) string {
	if len(a.Elems) == 0 {
		return "[]"
	}
	if !a.Multiline {
		return "[" + p.args(a.Elems) + "]"
	}
	inner := &printer{indent: p.indent + 1}
	var sb strings.Builder
	sb.WriteString("[\n")
	for _, el := range a.Elems {
		sb.WriteString(inner.pad() + inner.expr(el, precAssign) + ",\n")
	}
	if inner.err != nil && p.err == nil {
		p.err = inner.err
	}
	sb.WriteString(p.pad() + "]")
	return sb.String()
}
