// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package formatter

import (
	"github.com/AleutianAI/AleutianFmt/services/format/ast"
	"github.com/AleutianAI/AleutianFmt/services/format/ir"
	"github.com/AleutianAI/AleutianFmt/services/format/syntax"
)

// =============================================================================
// Functions
// =============================================================================

// functionView is satisfied by function declarations and expressions.
type functionView interface {
	Syntax() *syntax.Node
	AsyncToken() (*syntax.Token, bool)
	FunctionToken() (*syntax.Token, bool)
	StarToken() (*syntax.Token, bool)
	Name() (ast.Identifier, bool)
	Parameters() (ast.FormalParameters, bool)
	Body() (ast.StatementBlock, bool)
}

func formatFunctionDeclaration(d ast.FunctionDeclaration, f *Formatter) (ir.Element, bool) {
	return f.function(d)
}

func formatFunctionExpression(e ast.FunctionExpression, f *Formatter) (ir.Element, bool) {
	return f.function(e)
}

// function formats `async function* name(params) {}`. Anonymous
// functions keep a space before the parameters.
func (f *Formatter) function(fn functionView) (ir.Element, bool) {
	kw, ok := fn.FunctionToken()
	if !ok {
		return nil, false
	}
	params, ok := fn.Parameters()
	if !ok {
		return nil, false
	}
	paramsEl, ok := f.node(params)
	if !ok {
		return nil, false
	}
	body, ok := fn.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}

	var parts []ir.Element
	if async, ok := fn.AsyncToken(); ok {
		parts = append(parts, f.optionalToken(async, true), ir.SpaceToken())
	}
	keyword, _ := f.FormatToken(kw)
	parts = append(parts, keyword, f.optionalToken(fn.StarToken()), ir.SpaceToken())
	if name, ok := fn.Name(); ok {
		nameEl, ok := f.node(name)
		if !ok {
			return nil, false
		}
		parts = append(parts, nameEl)
	}
	parts = append(parts, paramsEl, ir.SpaceToken(), bodyEl)
	return ir.Concat(parts...), true
}

func formatArrowFunction(a ast.ArrowFunction, f *Formatter) (ir.Element, bool) {
	arrow, ok := a.ArrowToken()
	if !ok {
		return nil, false
	}
	var paramNode *syntax.Node
	if p, ok := a.Parameters(); ok {
		paramNode = p.Syntax()
	} else if p, ok := a.Parameter(); ok {
		paramNode = p.Syntax()
	}
	params, ok := f.FormatNode(paramNode)
	if !ok {
		return nil, false
	}
	body, ok := a.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}

	var parts []ir.Element
	if async, ok := a.AsyncToken(); ok {
		parts = append(parts, f.optionalToken(async, true), ir.SpaceToken())
	}
	arrowEl, _ := f.FormatToken(arrow)
	parts = append(parts, params, ir.SpaceToken(), arrowEl, ir.SpaceToken(), bodyEl)
	return ir.Concat(parts...), true
}

func formatFormalParameters(p ast.FormalParameters, f *Formatter) (ir.Element, bool) {
	return f.delimited("(", ")", p.Items().Syntax(), delimitedStyle{}), true
}

// =============================================================================
// Classes
// =============================================================================

// classView is satisfied by class declarations and class expressions.
type classView interface {
	ClassToken() (*syntax.Token, bool)
	Name() (ast.Identifier, bool)
	Heritage() (ast.ClassHeritage, bool)
	Body() (ast.ClassBody, bool)
}

func formatClassDeclaration(c ast.ClassDeclaration, f *Formatter) (ir.Element, bool) {
	return f.class(c)
}

func formatClass(c ast.Class, f *Formatter) (ir.Element, bool) {
	return f.class(c)
}

func (f *Formatter) class(c classView) (ir.Element, bool) {
	kw, ok := c.ClassToken()
	if !ok {
		return nil, false
	}
	body, ok := c.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}

	keyword, _ := f.FormatToken(kw)
	parts := []ir.Element{keyword}
	if name, ok := c.Name(); ok {
		nameEl, ok := f.node(name)
		if !ok {
			return nil, false
		}
		parts = append(parts, ir.SpaceToken(), nameEl)
	}
	if heritage, ok := c.Heritage(); ok {
		el, ok := f.node(heritage)
		if !ok {
			return nil, false
		}
		parts = append(parts, ir.SpaceToken(), el)
	}
	parts = append(parts, ir.SpaceToken(), bodyEl)
	return ir.Concat(parts...), true
}

func formatClassHeritage(h ast.ClassHeritage, f *Formatter) (ir.Element, bool) {
	kw, ok := h.ExtendsToken()
	if !ok {
		return nil, false
	}
	super, ok := h.SuperClass()
	if !ok {
		return nil, false
	}
	superEl, ok := f.node(super)
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	return ir.Concat(keyword, ir.SpaceToken(), superEl), true
}

func formatClassBody(b ast.ClassBody, f *Formatter) (ir.Element, bool) {
	return f.braced(b.Members().Syntax()), true
}

func formatMethod(m ast.MethodDefinition, f *Formatter) (ir.Element, bool) {
	name, ok := m.Name()
	if !ok {
		return nil, false
	}
	nameEl, ok := f.node(name)
	if !ok {
		return nil, false
	}
	params, ok := m.Parameters()
	if !ok {
		return nil, false
	}
	paramsEl, ok := f.node(params)
	if !ok {
		return nil, false
	}
	body, ok := m.Body()
	if !ok {
		return nil, false
	}
	bodyEl, ok := f.node(body)
	if !ok {
		return nil, false
	}

	var parts []ir.Element
	for _, mod := range m.Modifiers() {
		el, _ := f.FormatToken(mod)
		parts = append(parts, el)
		if mod.Kind() != syntax.KindStar {
			parts = append(parts, ir.SpaceToken())
		}
	}
	parts = append(parts, nameEl, paramsEl, ir.SpaceToken(), bodyEl)
	return ir.Concat(parts...), true
}

func formatField(d ast.FieldDefinition, f *Formatter) (ir.Element, bool) {
	prop, ok := d.Property()
	if !ok {
		return nil, false
	}
	propEl, ok := f.node(prop)
	if !ok {
		return nil, false
	}

	var parts []ir.Element
	if static, ok := d.StaticToken(); ok {
		parts = append(parts, f.optionalToken(static, true), ir.SpaceToken())
	}
	parts = append(parts, propEl)
	if value, ok := d.Value(); ok {
		valueEl, ok := f.node(value)
		if !ok {
			return nil, false
		}
		parts = append(parts, ir.SpaceToken(), f.token(d.Syntax(), syntax.KindEq, "="), ir.SpaceToken(), valueEl)
	}
	parts = append(parts, ir.Token(";"))
	return ir.Concat(parts...), true
}

// =============================================================================
// Modules
// =============================================================================

func formatImport(s ast.ImportStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.ImportToken()
	if !ok {
		return nil, false
	}
	source, ok := s.Source()
	if !ok {
		return nil, false
	}
	sourceEl, ok := f.node(source)
	if !ok {
		return nil, false
	}

	keyword, _ := f.FormatToken(kw)
	parts := []ir.Element{keyword, ir.SpaceToken()}
	if clause, ok := s.Clause(); ok {
		clauseEl, ok := f.node(clause)
		if !ok {
			return nil, false
		}
		from, ok := s.FromToken()
		if !ok {
			return nil, false
		}
		fromEl, _ := f.FormatToken(from)
		parts = append(parts, clauseEl, ir.SpaceToken(), fromEl, ir.SpaceToken())
	}
	parts = append(parts, sourceEl, f.semicolon(s.Syntax()))
	return ir.Concat(parts...), true
}

func formatImportClause(c ast.ImportClause, f *Formatter) (ir.Element, bool) {
	var bindings []ir.Element
	for binding := range c.Bindings().All() {
		el, ok := f.node(binding)
		if !ok {
			return nil, false
		}
		bindings = append(bindings, el)
	}
	if len(bindings) == 0 {
		return nil, false
	}
	return ir.Join(ir.Concat(ir.Token(","), ir.SpaceToken()), bindings), true
}

func formatNamespaceImport(n ast.NamespaceImport, f *Formatter) (ir.Element, bool) {
	star, ok := n.StarToken()
	if !ok {
		return nil, false
	}
	as, ok := n.AsToken()
	if !ok {
		return nil, false
	}
	name, ok := n.Name()
	if !ok {
		return nil, false
	}
	nameEl, ok := f.node(name)
	if !ok {
		return nil, false
	}
	starEl, _ := f.FormatToken(star)
	asEl, _ := f.FormatToken(as)
	return ir.Concat(starEl, ir.SpaceToken(), asEl, ir.SpaceToken(), nameEl), true
}

func formatNamedImports(n ast.NamedImports, f *Formatter) (ir.Element, bool) {
	return f.delimited("{", "}", n.Specifiers().Syntax(), delimitedStyle{spaced: true, es5: true}), true
}

func formatExportClause(c ast.ExportClause, f *Formatter) (ir.Element, bool) {
	return f.delimited("{", "}", c.Specifiers().Syntax(), delimitedStyle{spaced: true, es5: true}), true
}

// specifierView is satisfied by import and export specifiers.
type specifierView interface {
	Name() (ast.AnyNode, bool)
	AsToken() (*syntax.Token, bool)
	Alias() (ast.AnyNode, bool)
}

func formatImportSpecifier(s ast.ImportSpecifier, f *Formatter) (ir.Element, bool) {
	return f.specifier(s)
}

func formatExportSpecifier(s ast.ExportSpecifier, f *Formatter) (ir.Element, bool) {
	return f.specifier(s)
}

// specifier formats `name` or `name as alias`.
func (f *Formatter) specifier(s specifierView) (ir.Element, bool) {
	name, ok := s.Name()
	if !ok {
		return nil, false
	}
	nameEl, ok := f.node(name)
	if !ok {
		return nil, false
	}
	as, ok := s.AsToken()
	if !ok {
		return nameEl, true
	}
	alias, ok := s.Alias()
	if !ok {
		return nil, false
	}
	aliasEl, ok := f.node(alias)
	if !ok {
		return nil, false
	}
	asEl, _ := f.FormatToken(as)
	return ir.Concat(nameEl, ir.SpaceToken(), asEl, ir.SpaceToken(), aliasEl), true
}

// selfTerminating lists export default values that take no semicolon.
var selfTerminating = map[syntax.Kind]bool{
	syntax.KindFunctionDeclaration:          true,
	syntax.KindGeneratorFunctionDeclaration: true,
	syntax.KindClassDeclaration:             true,
	syntax.KindFunctionExpression:           true,
	syntax.KindGeneratorFunction:            true,
	syntax.KindClass:                        true,
}

func formatExport(s ast.ExportStatement, f *Formatter) (ir.Element, bool) {
	kw, ok := s.ExportToken()
	if !ok {
		return nil, false
	}
	keyword, _ := f.FormatToken(kw)
	n := s.Syntax()

	if def, ok := s.DefaultToken(); ok {
		value, ok := s.Value()
		if !ok {
			return nil, false
		}
		valueEl, ok := f.node(value)
		if !ok {
			return nil, false
		}
		defEl, _ := f.FormatToken(def)
		parts := []ir.Element{keyword, ir.SpaceToken(), defEl, ir.SpaceToken(), valueEl}
		if !selfTerminating[value.Kind()] {
			parts = append(parts, f.semicolon(n))
		}
		return ir.Concat(parts...), true
	}

	if decl, ok := s.Declaration(); ok {
		declEl, ok := f.node(decl)
		if !ok {
			return nil, false
		}
		return ir.Concat(keyword, ir.SpaceToken(), declEl), true
	}

	var parts []ir.Element
	switch clause, hasClause := s.Clause(); {
	case hasClause:
		el, ok := f.node(clause)
		if !ok {
			return nil, false
		}
		parts = []ir.Element{keyword, ir.SpaceToken(), el}
	default:
		star, ok := s.StarToken()
		if !ok {
			return nil, false
		}
		starEl, _ := f.FormatToken(star)
		parts = []ir.Element{keyword, ir.SpaceToken(), starEl}
	}

	if from, ok := s.FromToken(); ok {
		source, ok := s.Source()
		if !ok {
			return nil, false
		}
		sourceEl, ok := f.node(source)
		if !ok {
			return nil, false
		}
		fromEl, _ := f.FormatToken(from)
		parts = append(parts, ir.SpaceToken(), fromEl, ir.SpaceToken(), sourceEl)
	} else if _, isStar := s.StarToken(); isStar {
		return nil, false
	}
	parts = append(parts, f.semicolon(n))
	return ir.Concat(parts...), true
}
