package jsast

import (
	"strings"
	"unicode"
)

// NewIdent returns an identifier without a source position.
func NewIdent(name string) *Ident {
	return &Ident{Name: name}
}

// NewString returns a string literal.
func NewString(v string) *StringLit {
	return &StringLit{Value: v}
}

// NewNumber returns a numeric literal.
func NewNumber(v float64) *NumberLit {
	return &NumberLit{Value: v}
}

// NewAccess builds the property chain x.names[0].names[1]...
func NewAccess(x Expr, names ...string) Expr {
	for _, n := range names {
		x = &PropertyAccess{X: x, Name: n}
	}
	return x
}

// NewDottedName parses "a.b.c" into a property access chain.
func NewDottedName(name string) Expr {
	parts := strings.Split(name, ".")
	return NewAccess(NewIdent(parts[0]), parts[1:]...)
}

// NewAssign returns the statement "lhs = rhs;".
func NewAssign(lhs, rhs Expr) *ExprStmt {
	return &ExprStmt{X: &Binary{Op: "=", X: lhs, Y: rhs}}
}

// EntityName renders an identifier or property access chain as "a.b.c".
// It reports false for any other expression.
func EntityName(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Ident:
		return e.Name, true
	case *PropertyAccess:
		left, ok := EntityName(e.X)
		if !ok {
			return "", false
		}
		return left + "." + e.Name, true
	case *This:
		return "this", true
	}
	return "", false
}

// RightmostName returns the last identifier of an entity name.
func RightmostName(e Expr) string {
	switch e := e.(type) {
	case *Ident:
		return e.Name
	case *PropertyAccess:
		return e.Name
	}
	return ""
}

// CloneEntityName copies an identifier or property access chain, keeping
// positions. Other expressions are returned as is.
func CloneEntityName(e Expr) Expr {
	switch e := e.(type) {
	case *Ident:
		c := *e
		return &c
	case *PropertyAccess:
		return &PropertyAccess{Base: e.Base, X: CloneEntityName(e.X), Name: e.Name}
	}
	return e
}

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true, "with": true,
}

// IsValidIdentifier reports whether name can be written as a bare
// JavaScript identifier.
func IsValidIdentifier(name string) bool {
	if name == "" || reservedWords[name] {
		return false
	}
	for i, r := range name {
		switch {
		case r == '$' || r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// IsValidPropertyName reports whether name can follow a dot in a property
// access. Reserved words are allowed there.
func IsValidPropertyName(name string) bool {
	return IsValidIdentifier(name) || (reservedWords[name] && name != "")
}
