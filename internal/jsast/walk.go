package jsast

// Inspect traverses the tree rooted at n in depth-first order. If f
// returns false the children of that node are skipped. Type nodes are
// visited too, so callers that only care about runtime code should stop
// at TypeNode values.
func Inspect(n Node, f func(Node) bool) {
	if isNilNode(n) || !f(n) {
		return
	}
	switch n := n.(type) {
	case *SourceFile:
		inspectStmts(n.Stmts, f)
	case *Decorator:
		Inspect(n.X, f)
	case *TypeParam:
		Inspect(n.Name, f)
		inspectType(n.Constraint, f)
		inspectType(n.Default, f)
	case *Param:
		for _, d := range n.Decorators {
			Inspect(d, f)
		}
		inspectIdent(n.Name, f)
		inspectExpr(n.Pattern, f)
		inspectType(n.Type, f)
		inspectExpr(n.Init, f)
	case *ComputedName:
		Inspect(n.X, f)

	// statements
	case *CommentStmt:
	case *ImportDecl:
		inspectIdent(n.Default, f)
		inspectIdent(n.Namespace, f)
		for _, s := range n.Named {
			Inspect(s, f)
		}
	case *ImportSpec:
		inspectIdent(n.Local, f)
	case *ExportDecl:
		for _, s := range n.Specs {
			Inspect(s, f)
		}
	case *ExportSpec:
	case *ExportDefault:
		Inspect(n.X, f)
	case *VarDecl:
		for _, b := range n.Bindings {
			Inspect(b, f)
		}
	case *VarBinding:
		inspectIdent(n.Name, f)
		inspectType(n.Type, f)
		inspectExpr(n.Init, f)
	case *FuncDecl:
		inspectIdent(n.Name, f)
		inspectSignature(n.TypeParams, n.Params, n.Return, f)
		inspectBlock(n.Body, f)
	case *ClassDecl:
		for _, d := range n.Decorators {
			Inspect(d, f)
		}
		inspectIdent(n.Name, f)
		for _, tp := range n.TypeParams {
			Inspect(tp, f)
		}
		if n.Extends != nil {
			Inspect(n.Extends, f)
		}
		for _, i := range n.Implements {
			Inspect(i, f)
		}
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *Heritage:
		Inspect(n.X, f)
		for _, a := range n.TypeArgs {
			Inspect(a, f)
		}
	case *InterfaceDecl:
		inspectIdent(n.Name, f)
		for _, tp := range n.TypeParams {
			Inspect(tp, f)
		}
		for _, e := range n.Extends {
			Inspect(e, f)
		}
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *TypeAliasDecl:
		inspectIdent(n.Name, f)
		for _, tp := range n.TypeParams {
			Inspect(tp, f)
		}
		inspectType(n.Type, f)
	case *EnumDecl:
		inspectIdent(n.Name, f)
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *EnumMember:
		Inspect(n.Name, f)
		inspectExpr(n.Init, f)
	case *NamespaceDecl:
		inspectIdent(n.Name, f)
		inspectStmts(n.Body, f)
	case *ExprStmt:
		Inspect(n.X, f)
	case *ReturnStmt:
		inspectExpr(n.X, f)
	case *Block:
		inspectStmts(n.Stmts, f)
	case *IfStmt:
		Inspect(n.Cond, f)
		inspectBlock(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}

	// class and type members
	case *PropertyDecl:
		for _, d := range n.Decorators {
			Inspect(d, f)
		}
		Inspect(n.Name, f)
		inspectType(n.Type, f)
		inspectExpr(n.Init, f)
	case *MethodDecl:
		for _, d := range n.Decorators {
			Inspect(d, f)
		}
		Inspect(n.Name, f)
		inspectSignature(n.TypeParams, n.Params, n.Return, f)
		inspectBlock(n.Body, f)
	case *Constructor:
		inspectSignature(nil, n.Params, nil, f)
		inspectBlock(n.Body, f)
	case *PropertySignature:
		Inspect(n.Name, f)
		inspectType(n.Type, f)
	case *MethodSignature:
		Inspect(n.Name, f)
		inspectSignature(n.TypeParams, n.Params, n.Return, f)
	case *IndexSignature:
		if n.Key != nil {
			Inspect(n.Key, f)
		}
		inspectType(n.Type, f)
	case *CallSignature:
		inspectSignature(n.TypeParams, n.Params, n.Return, f)
	case *ConstructSignature:
		inspectSignature(n.TypeParams, n.Params, n.Return, f)

	// expressions
	case *Ident, *StringLit, *NumberLit, *BoolLit, *NullLit, *UndefinedLit, *This, *Super:
	case *PropertyAccess:
		Inspect(n.X, f)
	case *ElementAccess:
		Inspect(n.X, f)
		Inspect(n.Index, f)
	case *Call:
		Inspect(n.Fn, f)
		for _, a := range n.TypeArgs {
			Inspect(a, f)
		}
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *New:
		Inspect(n.X, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *ObjectLit:
		for _, p := range n.Props {
			Inspect(p, f)
		}
	case *ObjectProp:
		Inspect(n.Key, f)
		Inspect(n.Value, f)
	case *ArrayLit:
		for _, e := range n.Elems {
			Inspect(e, f)
		}
	case *Arrow:
		inspectSignature(nil, n.Params, n.Return, f)
		inspectBlock(n.Body, f)
		inspectExpr(n.Expr, f)
	case *FuncExpr:
		inspectIdent(n.Name, f)
		inspectSignature(nil, n.Params, n.Return, f)
		inspectBlock(n.Body, f)
	case *Binary:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *Unary:
		Inspect(n.X, f)
	case *Paren:
		Inspect(n.X, f)

	// type nodes
	case *KeywordType, *OpaqueType:
	case *TypeRef:
		Inspect(n.Name, f)
		for _, a := range n.TypeArgs {
			Inspect(a, f)
		}
	case *ArrayTypeNode:
		Inspect(n.Elem, f)
	case *TupleTypeNode:
		for _, e := range n.Elems {
			Inspect(e, f)
		}
	case *UnionTypeNode:
		for _, t := range n.Types {
			Inspect(t, f)
		}
	case *IntersectionType:
		for _, t := range n.Types {
			Inspect(t, f)
		}
	case *FunctionTypeNode:
		inspectSignature(n.TypeParams, n.Params, n.Return, f)
	case *TypeLiteral:
		for _, m := range n.Members {
			Inspect(m, f)
		}
	case *LiteralTypeNode:
		Inspect(n.Literal, f)
	case *TypeQuery:
		Inspect(n.X, f)
	case *ParenType:
		Inspect(n.X, f)
	}
}

func inspectStmts(stmts []Stmt, f func(Node) bool) {
	for _, s := range stmts {
		Inspect(s, f)
	}
}

func inspectSignature(tps []*TypeParam, params []*Param, ret TypeNode, f func(Node) bool) {
	for _, tp := range tps {
		Inspect(tp, f)
	}
	for _, p := range params {
		Inspect(p, f)
	}
	inspectType(ret, f)
}

// The helpers below keep typed nil pointers out of the Node interface.

func inspectIdent(id *Ident, f func(Node) bool) {
	if id != nil {
		Inspect(id, f)
	}
}

func inspectBlock(b *Block, f func(Node) bool) {
	if b != nil {
		Inspect(b, f)
	}
}

func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectType(t TypeNode, f func(Node) bool) {
	if t != nil {
		Inspect(t, f)
	}
}

func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *Ident:
		return n == nil
	case *Block:
		return n == nil
	}
	return false
}
