// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import "github.com/AleutianAI/AleutianFmt/services/format/syntax"

// =============================================================================
// Functions
// =============================================================================

// FunctionDeclaration is a named `function` or `function*` declaration.
type FunctionDeclaration struct{ node }

func (FunctionDeclaration) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindFunctionDeclaration || kind == syntax.KindGeneratorFunctionDeclaration
}
func (FunctionDeclaration) wrap(n *syntax.Node) FunctionDeclaration {
	return FunctionDeclaration{node{n}}
}

func (f FunctionDeclaration) AsyncToken() (*syntax.Token, bool) {
	return Token(f.raw, syntax.KindAsyncKeyword)
}
func (f FunctionDeclaration) FunctionToken() (*syntax.Token, bool) {
	return Token(f.raw, syntax.KindFunctionKeyword)
}
func (f FunctionDeclaration) StarToken() (*syntax.Token, bool) { return Token(f.raw, syntax.KindStar) }
func (f FunctionDeclaration) Name() (Identifier, bool)         { return Child[Identifier](f.raw) }
func (f FunctionDeclaration) Parameters() (FormalParameters, bool) {
	return Child[FormalParameters](f.raw)
}
func (f FunctionDeclaration) Body() (StatementBlock, bool) { return Child[StatementBlock](f.raw) }

// GeneratorFunctionDeclaration narrows FunctionDeclaration to `function*`.
type GeneratorFunctionDeclaration struct{ FunctionDeclaration }

func (GeneratorFunctionDeclaration) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindGeneratorFunctionDeclaration
}
func (GeneratorFunctionDeclaration) wrap(n *syntax.Node) GeneratorFunctionDeclaration {
	return GeneratorFunctionDeclaration{FunctionDeclaration{node{n}}}
}

// FunctionExpression is an anonymous or named function or generator
// expression.
type FunctionExpression struct{ node }

func (FunctionExpression) CanCast(kind syntax.Kind) bool {
	return kind == syntax.KindFunctionExpression || kind == syntax.KindGeneratorFunction
}
func (FunctionExpression) wrap(n *syntax.Node) FunctionExpression {
	return FunctionExpression{node{n}}
}

func (f FunctionExpression) AsyncToken() (*syntax.Token, bool) {
	return Token(f.raw, syntax.KindAsyncKeyword)
}
func (f FunctionExpression) FunctionToken() (*syntax.Token, bool) {
	return Token(f.raw, syntax.KindFunctionKeyword)
}
func (f FunctionExpression) StarToken() (*syntax.Token, bool) { return Token(f.raw, syntax.KindStar) }
func (f FunctionExpression) Name() (Identifier, bool)         { return Child[Identifier](f.raw) }
func (f FunctionExpression) Parameters() (FormalParameters, bool) {
	return Child[FormalParameters](f.raw)
}
func (f FunctionExpression) Body() (StatementBlock, bool) { return Child[StatementBlock](f.raw) }

// ArrowFunction is `[async] params => body`. The parameter side is either
// a bare identifier or a parenthesised parameter list.
type ArrowFunction struct{ node }

func (ArrowFunction) CanCast(kind syntax.Kind) bool     { return kind == syntax.KindArrowFunction }
func (ArrowFunction) wrap(n *syntax.Node) ArrowFunction { return ArrowFunction{node{n}} }

func (f ArrowFunction) AsyncToken() (*syntax.Token, bool) {
	return Token(f.raw, syntax.KindAsyncKeyword)
}

// Parameter returns the bare identifier parameter of `x => ...`.
func (f ArrowFunction) Parameter() (Identifier, bool) {
	return childBefore[Identifier](f.raw, syntax.KindArrow)
}
func (f ArrowFunction) Parameters() (FormalParameters, bool) {
	return childBefore[FormalParameters](f.raw, syntax.KindArrow)
}
func (f ArrowFunction) ArrowToken() (*syntax.Token, bool) { return Token(f.raw, syntax.KindArrow) }

// Body returns the expression or statement block after `=>`.
func (f ArrowFunction) Body() (AnyNode, bool) { return childAfter[AnyNode](f.raw, syntax.KindArrow) }

// FormalParameters is a parenthesised parameter list.
type FormalParameters struct{ node }

func (FormalParameters) CanCast(kind syntax.Kind) bool        { return kind == syntax.KindFormalParameters }
func (FormalParameters) wrap(n *syntax.Node) FormalParameters { return FormalParameters{node{n}} }

func (p FormalParameters) LParenToken() (*syntax.Token, bool) { return Token(p.raw, syntax.KindLParen) }
func (p FormalParameters) Items() AstNodeList[AnyNode]        { return List[AnyNode](p.raw) }
func (p FormalParameters) RParenToken() (*syntax.Token, bool) { return Token(p.raw, syntax.KindRParen) }

// =============================================================================
// Classes
// =============================================================================

// ClassDeclaration is a named class declaration.
type ClassDeclaration struct{ node }

func (ClassDeclaration) CanCast(kind syntax.Kind) bool        { return kind == syntax.KindClassDeclaration }
func (ClassDeclaration) wrap(n *syntax.Node) ClassDeclaration { return ClassDeclaration{node{n}} }

func (c ClassDeclaration) ClassToken() (*syntax.Token, bool) {
	return Token(c.raw, syntax.KindClassKeyword)
}
func (c ClassDeclaration) Name() (Identifier, bool)        { return Child[Identifier](c.raw) }
func (c ClassDeclaration) Heritage() (ClassHeritage, bool) { return Child[ClassHeritage](c.raw) }
func (c ClassDeclaration) Body() (ClassBody, bool)         { return Child[ClassBody](c.raw) }

// Class is a class expression.
type Class struct{ node }

func (Class) CanCast(kind syntax.Kind) bool { return kind == syntax.KindClass }
func (Class) wrap(n *syntax.Node) Class     { return Class{node{n}} }

func (c Class) ClassToken() (*syntax.Token, bool) { return Token(c.raw, syntax.KindClassKeyword) }
func (c Class) Name() (Identifier, bool)          { return Child[Identifier](c.raw) }
func (c Class) Heritage() (ClassHeritage, bool)   { return Child[ClassHeritage](c.raw) }
func (c Class) Body() (ClassBody, bool)           { return Child[ClassBody](c.raw) }

// ClassHeritage is the `extends expr` clause.
type ClassHeritage struct{ node }

func (ClassHeritage) CanCast(kind syntax.Kind) bool     { return kind == syntax.KindClassHeritage }
func (ClassHeritage) wrap(n *syntax.Node) ClassHeritage { return ClassHeritage{node{n}} }

func (h ClassHeritage) ExtendsToken() (*syntax.Token, bool) {
	return Token(h.raw, syntax.KindExtendsKeyword)
}
func (h ClassHeritage) SuperClass() (AnyNode, bool) { return Child[AnyNode](h.raw) }

// ClassBody is the braced member list of a class.
type ClassBody struct{ node }

func (ClassBody) CanCast(kind syntax.Kind) bool { return kind == syntax.KindClassBody }
func (ClassBody) wrap(n *syntax.Node) ClassBody { return ClassBody{node{n}} }

func (b ClassBody) LCurlyToken() (*syntax.Token, bool) { return Token(b.raw, syntax.KindLCurly) }
func (b ClassBody) Members() AstNodeList[ClassMember]  { return List[ClassMember](b.raw) }
func (b ClassBody) RCurlyToken() (*syntax.Token, bool) { return Token(b.raw, syntax.KindRCurly) }

// MethodDefinition is a class or object method, getter or setter.
type MethodDefinition struct{ node }

func (MethodDefinition) CanCast(kind syntax.Kind) bool        { return kind == syntax.KindMethodDefinition }
func (MethodDefinition) wrap(n *syntax.Node) MethodDefinition { return MethodDefinition{node{n}} }

// Modifiers returns the static, async, get, set and `*` tokens that
// precede the name, in source order.
func (m MethodDefinition) Modifiers() []*syntax.Token {
	var mods []*syntax.Token
	for _, child := range m.raw.Children() {
		if _, isNode := child.AsNode(); isNode {
			break
		}
		tok, _ := child.AsToken()
		switch tok.Kind() {
		case syntax.KindStaticKeyword, syntax.KindAsyncKeyword, syntax.KindGetKeyword,
			syntax.KindSetKeyword, syntax.KindStar:
			mods = append(mods, tok)
		}
	}
	return mods
}
func (m MethodDefinition) Name() (PropertyName, bool) { return Child[PropertyName](m.raw) }
func (m MethodDefinition) Parameters() (FormalParameters, bool) {
	return Child[FormalParameters](m.raw)
}
func (m MethodDefinition) Body() (StatementBlock, bool) { return Child[StatementBlock](m.raw) }

// FieldDefinition is a class field with an optional initializer.
type FieldDefinition struct{ node }

func (FieldDefinition) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindFieldDefinition }
func (FieldDefinition) wrap(n *syntax.Node) FieldDefinition { return FieldDefinition{node{n}} }

func (f FieldDefinition) StaticToken() (*syntax.Token, bool) {
	return Token(f.raw, syntax.KindStaticKeyword)
}
func (f FieldDefinition) Property() (PropertyName, bool) { return Child[PropertyName](f.raw) }
func (f FieldDefinition) EqToken() (*syntax.Token, bool) { return Token(f.raw, syntax.KindEq) }
func (f FieldDefinition) Value() (AnyNode, bool)         { return childAfter[AnyNode](f.raw, syntax.KindEq) }

// =============================================================================
// Modules
// =============================================================================

// ImportStatement is `import clause from "source";` or `import "source";`.
type ImportStatement struct{ node }

func (ImportStatement) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindImportStatement }
func (ImportStatement) wrap(n *syntax.Node) ImportStatement { return ImportStatement{node{n}} }

func (s ImportStatement) ImportToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindImportKeyword)
}
func (s ImportStatement) Clause() (ImportClause, bool)     { return Child[ImportClause](s.raw) }
func (s ImportStatement) FromToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindFromKeyword) }
func (s ImportStatement) Source() (String, bool)           { return Child[String](s.raw) }
func (s ImportStatement) SemicolonToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindSemicolon)
}

// ImportClause is the binding part of an import: a default binding, a
// namespace import, named imports, or a default binding plus one of the
// other two.
type ImportClause struct{ node }

func (ImportClause) CanCast(kind syntax.Kind) bool    { return kind == syntax.KindImportClause }
func (ImportClause) wrap(n *syntax.Node) ImportClause { return ImportClause{node{n}} }

func (c ImportClause) Default() (Identifier, bool)        { return Child[Identifier](c.raw) }
func (c ImportClause) Namespace() (NamespaceImport, bool) { return Child[NamespaceImport](c.raw) }
func (c ImportClause) Named() (NamedImports, bool)        { return Child[NamedImports](c.raw) }
func (c ImportClause) Bindings() *AstChildren[AnyNode]    { return Children[AnyNode](c.raw) }

// NamespaceImport is `* as name`.
type NamespaceImport struct{ node }

func (NamespaceImport) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindNamespaceImport }
func (NamespaceImport) wrap(n *syntax.Node) NamespaceImport { return NamespaceImport{node{n}} }

func (n NamespaceImport) StarToken() (*syntax.Token, bool) { return Token(n.raw, syntax.KindStar) }
func (n NamespaceImport) AsToken() (*syntax.Token, bool)   { return Token(n.raw, syntax.KindAsKeyword) }
func (n NamespaceImport) Name() (Identifier, bool)         { return Child[Identifier](n.raw) }

// NamedImports is `{ a, b as c }`.
type NamedImports struct{ node }

func (NamedImports) CanCast(kind syntax.Kind) bool    { return kind == syntax.KindNamedImports }
func (NamedImports) wrap(n *syntax.Node) NamedImports { return NamedImports{node{n}} }

func (n NamedImports) Specifiers() AstNodeList[ImportSpecifier] { return List[ImportSpecifier](n.raw) }

// ImportSpecifier is `name` or `name as alias`.
type ImportSpecifier struct{ node }

func (ImportSpecifier) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindImportSpecifier }
func (ImportSpecifier) wrap(n *syntax.Node) ImportSpecifier { return ImportSpecifier{node{n}} }

func (s ImportSpecifier) Name() (AnyNode, bool)          { return nth[AnyNode](s.raw, 0) }
func (s ImportSpecifier) AsToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindAsKeyword) }
func (s ImportSpecifier) Alias() (AnyNode, bool)         { return childAfter[AnyNode](s.raw, syntax.KindAsKeyword) }

// ExportStatement covers every export form: clause, star re-export,
// declaration and default.
type ExportStatement struct{ node }

func (ExportStatement) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindExportStatement }
func (ExportStatement) wrap(n *syntax.Node) ExportStatement { return ExportStatement{node{n}} }

func (s ExportStatement) ExportToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindExportKeyword)
}
func (s ExportStatement) DefaultToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindDefaultKeyword)
}
func (s ExportStatement) StarToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindStar) }
func (s ExportStatement) Clause() (ExportClause, bool)     { return Child[ExportClause](s.raw) }
func (s ExportStatement) Declaration() (Declaration, bool) { return Child[Declaration](s.raw) }
func (s ExportStatement) FromToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindFromKeyword) }
func (s ExportStatement) Source() (String, bool) {
	return childAfter[String](s.raw, syntax.KindFromKeyword)
}

// Value returns the exported expression of `export default expr;`.
func (s ExportStatement) Value() (AnyNode, bool) {
	return childAfter[AnyNode](s.raw, syntax.KindDefaultKeyword)
}
func (s ExportStatement) SemicolonToken() (*syntax.Token, bool) {
	return Token(s.raw, syntax.KindSemicolon)
}

// ExportClause is `{ a, b as c }` in an export.
type ExportClause struct{ node }

func (ExportClause) CanCast(kind syntax.Kind) bool    { return kind == syntax.KindExportClause }
func (ExportClause) wrap(n *syntax.Node) ExportClause { return ExportClause{node{n}} }

func (c ExportClause) Specifiers() AstNodeList[ExportSpecifier] { return List[ExportSpecifier](c.raw) }

// ExportSpecifier is `name` or `name as alias`.
type ExportSpecifier struct{ node }

func (ExportSpecifier) CanCast(kind syntax.Kind) bool       { return kind == syntax.KindExportSpecifier }
func (ExportSpecifier) wrap(n *syntax.Node) ExportSpecifier { return ExportSpecifier{node{n}} }

func (s ExportSpecifier) Name() (AnyNode, bool)          { return nth[AnyNode](s.raw, 0) }
func (s ExportSpecifier) AsToken() (*syntax.Token, bool) { return Token(s.raw, syntax.KindAsKeyword) }
func (s ExportSpecifier) Alias() (AnyNode, bool)         { return childAfter[AnyNode](s.raw, syntax.KindAsKeyword) }
