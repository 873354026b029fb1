package analyzer

import (
	"math"

	"martianoff/tsclosure/internal/jsast"
	"martianoff/tsclosure/internal/transpiler"
)

// constant is a memoized enum member value. ok is false for members that
// do not fold.
type constant struct {
	value any
	ok    bool
}

// constValue folds the value of an enum member. Members without an
// initializer continue numbering from the previous member; numbering stops
// after a string or non-constant member.
func (p *Program) constValue(m *jsast.EnumMember) (any, bool) {
	if c, ok := p.enumValues[m]; ok {
		return c.value, c.ok
	}
	if p.inProgress.Contains(m) {
		return nil, false
	}
	p.inProgress.Insert(m)
	defer p.inProgress.Remove(m)

	c := constant{}
	switch enum := p.memberEnum[m]; {
	case m.Init != nil:
		c.value, c.ok = p.evalConst(m.Init)
	case enum == nil:
	default:
		i := memberIndex(enum, m)
		if i == 0 {
			c = constant{value: float64(0), ok: true}
			break
		}
		if prev, ok := p.constValue(enum.Members[i-1]); ok {
			if f, isNum := prev.(float64); isNum {
				c = constant{value: f + 1, ok: true}
			}
		}
	}
	p.enumValues[m] = c
	return c.value, c.ok
}

func memberIndex(e *jsast.EnumDecl, m *jsast.EnumMember) int {
	for i, x := range e.Members {
		if x == m {
			return i
		}
	}
	return -1
}

func (p *Program) evalConst(e jsast.Expr) (any, bool) {
	switch e := e.(type) {
	case *jsast.NumberLit:
		return e.Value, true
	case *jsast.StringLit:
		return e.Value, true
	case *jsast.Paren:
		return p.evalConst(e.X)
	case *jsast.Unary:
		v, ok := p.evalConst(e.X)
		f, isNum := v.(float64)
		if !ok || !isNum {
			return nil, false
		}
		switch e.Op {
		case "-":
			return -f, true
		case "+":
			return f, true
		case "~":
			return float64(^int32(f)), true
		}
	case *jsast.Binary:
		x, ok := p.evalConst(e.X)
		if !ok {
			return nil, false
		}
		y, ok := p.evalConst(e.Y)
		if !ok {
			return nil, false
		}
		return foldBinary(e.Op, x, y)
	case *jsast.Ident, *jsast.PropertyAccess:
		sym := p.AliasedSymbol(p.symbolAt(e))
		if sym == nil || !sym.Flags.Has(transpiler.SymbolEnumMember) || len(sym.Decls) == 0 {
			return nil, false
		}
		if m, ok := sym.Decls[0].(*jsast.EnumMember); ok {
			return p.constValue(m)
		}
	}
	return nil, false
}

func foldBinary(op string, x, y any) (any, bool) {
	if xs, ok := x.(string); ok {
		if ys, ok := y.(string); ok && op == "+" {
			return xs + ys, true
		}
		return nil, false
	}
	a, ok1 := x.(float64)
	b, ok2 := y.(float64)
	if !ok1 || !ok2 {
		return nil, false
	}
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		return a / b, true
	case "%":
		return math.Mod(a, b), true
	case "**":
		return math.Pow(a, b), true
	case "|":
		return float64(int32(a) | int32(b)), true
	case "&":
		return float64(int32(a) & int32(b)), true
	case "^":
		return float64(int32(a) ^ int32(b)), true
	case "<<":
		return float64(int32(a) << (uint32(b) & 31)), true
	case ">>":
		return float64(int32(a) >> (uint32(b) & 31)), true
	case ">>>":
		return float64(uint32(a) >> (uint32(b) & 31)), true
	}
	return nil, false
}
