package ast

import (
	"lume-lang/internal/span"
	"lume-lang/internal/token"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return m("File", n.Span, "body", stmtSlice(n.Body))

	// ---- Expressions ----
	case *Literal:
		return m("Literal", n.Span, "value", n.Value)
	case *Grouping:
		return m("Grouping", n.Span, "inner", NodeToMap(n.Inner))
	case *Unary:
		return m("Unary", n.Span, "op", n.Op.Lexeme, "operand", NodeToMap(n.Operand))
	case *Binary:
		return m("Binary", n.Span,
			"op", n.Op.Lexeme,
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *Logical:
		return m("Logical", n.Span,
			"op", n.Op.Lexeme,
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *Variable:
		return m("Variable", n.Span, "name", n.Name.Lexeme)
	case *Assign:
		return m("Assign", n.Span,
			"name", n.Name.Lexeme,
			"value", NodeToMap(n.Value))
	case *Call:
		return m("Call", n.Span,
			"callee", NodeToMap(n.Callee),
			"args", exprSlice(n.Args))
	case *Get:
		return m("Get", n.Span,
			"object", NodeToMap(n.Object),
			"name", n.Name.Lexeme)
	case *SetProp:
		return m("SetProp", n.Span,
			"object", NodeToMap(n.Object),
			"name", n.Name.Lexeme,
			"value", NodeToMap(n.Value))
	case *ListLit:
		return m("ListLit", n.Span, "elements", exprSlice(n.Elements))
	case *MapLit:
		return m("MapLit", n.Span,
			"keys", exprSlice(n.Keys),
			"values", exprSlice(n.Values))
	case *Index:
		return m("Index", n.Span,
			"object", NodeToMap(n.Object),
			"key", NodeToMap(n.Key))
	case *SetIndex:
		return m("SetIndex", n.Span,
			"object", NodeToMap(n.Object),
			"key", NodeToMap(n.Key),
			"value", NodeToMap(n.Value))
	case *This:
		return m("This", n.Span)
	case *Super:
		return m("Super", n.Span, "method", n.Method.Lexeme)

	// ---- Statements ----
	case *ExprStmt:
		return m("ExprStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *PrintStmt:
		return m("PrintStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *VarDeclStmt:
		result := m("VarDeclStmt", n.Span, "name", n.Name.Lexeme)
		if n.Init != nil {
			result["init"] = NodeToMap(n.Init)
		}
		return result
	case *BlockStmt:
		return m("BlockStmt", n.Span, "stmts", stmtSlice(n.Stmts))
	case *IfStmt:
		result := m("IfStmt", n.Span,
			"condition", NodeToMap(n.Cond),
			"then", NodeToMap(n.Then))
		if n.Else != nil {
			result["else"] = NodeToMap(n.Else)
		}
		return result
	case *WhileStmt:
		return m("WhileStmt", n.Span,
			"condition", NodeToMap(n.Cond),
			"body", NodeToMap(n.Body))
	case *DoWhileStmt:
		return m("DoWhileStmt", n.Span,
			"body", NodeToMap(n.Body),
			"condition", NodeToMap(n.Cond))
	case *BreakStmt:
		return m("BreakStmt", n.Span)
	case *ContinueStmt:
		return m("ContinueStmt", n.Span)
	case *ReturnStmt:
		result := m("ReturnStmt", n.Span)
		if n.Value != nil {
			result["value"] = NodeToMap(n.Value)
		}
		return result
	case *FuncDeclStmt:
		return m("FuncDeclStmt", n.Span,
			"name", n.Name.Lexeme,
			"params", paramNames(n.Params),
			"body", stmtSlice(n.Body))
	case *ClassDeclStmt:
		result := m("ClassDeclStmt", n.Span, "name", n.Name.Lexeme)
		if n.Superclass != nil {
			result["superclass"] = n.Superclass.Name.Lexeme
		}
		methods := make([]interface{}, len(n.Methods))
		for i, md := range n.Methods {
			methods[i] = NodeToMap(md)
		}
		result["methods"] = methods
		return result
	case *SetStmt:
		return m("SetStmt", n.Span,
			"name", n.Name.Lexeme,
			"value", NodeToMap(n.Value))
	case *BuildStmt:
		result := m("BuildStmt", n.Span, "target", NodeToMap(n.Target))
		if n.Args != nil {
			result["args"] = exprSlice(n.Args)
		}
		return result
	case *WalkStmt:
		return m("WalkStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *CheckStmt:
		return m("CheckStmt", n.Span, "expr", NodeToMap(n.Expr))
	case *OtherwiseStmt:
		return m("OtherwiseStmt", n.Span)
	case *ThruStmt:
		return m("ThruStmt", n.Span, "expr", NodeToMap(n.Expr))

	default:
		return map[string]interface{}{"kind": "Unknown"}
	}
}

// ---- helpers ----

// m builds a map with kind, span, and extra key-value pairs.
func m(kind string, s span.Span, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"span": spanToMap(s),
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func spanToMap(s span.Span) map[string]interface{} {
	return map[string]interface{}{
		"start": map[string]interface{}{
			"offset": s.Start.Offset,
			"line":   s.Start.Line,
			"column": s.Start.Column,
		},
		"end": map[string]interface{}{
			"offset": s.End.Offset,
			"line":   s.End.Line,
			"column": s.End.Column,
		},
	}
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func exprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = NodeToMap(e)
	}
	return result
}

func paramNames(params []token.Token) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return names
}
