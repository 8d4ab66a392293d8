// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package frontend extracts checker.CallSite values from Go source
// using tree-sitter, implementing the producer contract of
// SPEC_FULL.md §6: each argument expression contributes an ordered
// list of "identifiers" derived from it —
//
//   - a bare identifier contributes its own name
//   - a literal contributes "LIT:" + its source text
//   - a selector expression (x.Field) contributes the field/method name
//   - an index expression (x[i]) contributes its base operand's name
//   - a call expression (f(...)) contributes the callee's name
//   - a unary expression (&x, !x) contributes its operand's contribution
//
// Parameter names are resolved when the callee is declared in the same
// file; otherwise CallSite.ParamNames is left nil and only the
// statistics-based checker can evaluate the site.
package frontend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/gtswap/swapcheck/internal/checker"
	"github.com/gtswap/swapcheck/internal/telemetry"
)

// DefaultMaxFileSize bounds the size of a source file this frontend
// will parse.
const DefaultMaxFileSize = 10 * 1024 * 1024 // 10MiB

// Site is a CallSite paired with the source location and the verbatim
// argument text a host needs to render a diagnostic and a suggested
// fix (internal/diagnostic.SuggestedFix).
type Site struct {
	checker.CallSite

	Line     int // 1-based
	Column   int // 0-based
	RawLine  string
	ArgText  []string // verbatim source text of each argument expression
}

// GoParser extracts call sites from Go source files.
//
// # Thread Safety
//
// GoParser is stateless; a single instance is safe for concurrent use.
// Each Scan call creates its own tree-sitter parser.
type GoParser struct {
	maxFileSize int64
}

// NewGoParser creates a GoParser with the default file-size limit.
func NewGoParser() *GoParser {
	return &GoParser{maxFileSize: DefaultMaxFileSize}
}

// Scan parses a single Go source file and returns every call expression
// found, in source order.
func (p *GoParser) Scan(ctx context.Context, content []byte, path string) ([]Site, error) {
	ctx, span := telemetry.StartScanSpan(ctx, path)
	defer span.End()

	start := time.Now()

	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("frontend: %s exceeds max file size %d", path, p.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("frontend: %s is not valid UTF-8", path)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("frontend: tree-sitter parse of %s failed: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("frontend: %s produced no syntax tree", path)
	}
	if root.HasError() {
		slog.Warn("frontend: source contains syntax errors, extracting best-effort", slog.String("path", path))
	}

	funcParams := collectFuncParams(root, content)

	var sites []Site
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "call_expression" {
			if site, ok := buildSite(n, content, path, funcParams); ok {
				sites = append(sites, site)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	telemetry.RecordResultCount(span, len(sites))
	slog.Debug("frontend: scan complete",
		slog.String("path", path),
		slog.Int("call_sites", len(sites)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return sites, nil
}

// =============================================================================
// Function/method parameter declarations
// =============================================================================

// collectFuncParams walks the whole file collecting parameter name
// lists for every func and method declaration, keyed by the
// declaration's bare name. Overloaded/duplicate names (legal for
// methods on distinct receivers) keep the first declaration seen.
func collectFuncParams(root *sitter.Node, content []byte) map[string][]string {
	out := make(map[string][]string)

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "function_declaration", "method_declaration":
			nameNode := n.ChildByFieldName("name")
			paramsNode := n.ChildByFieldName("parameters")
			if nameNode != nil && paramsNode != nil {
				name := text(nameNode, content)
				if _, exists := out[name]; !exists {
					out[name] = paramNames(paramsNode, content)
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

// paramNames extracts formal parameter names, in declaration order,
// from a parameter_list node. Grouped parameters ("a, b int") each
// contribute their own name; an unnamed parameter contributes "".
func paramNames(paramsNode *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		decl := paramsNode.Child(i)
		if decl.Type() != "parameter_declaration" && decl.Type() != "variadic_parameter_declaration" {
			continue
		}
		var declNames []string
		for j := 0; j < int(decl.ChildCount()); j++ {
			child := decl.Child(j)
			if child.Type() == "identifier" {
				declNames = append(declNames, text(child, content))
			}
		}
		if len(declNames) == 0 {
			names = append(names, "")
			continue
		}
		names = append(names, declNames...)
	}
	return names
}

// =============================================================================
// Call expressions
// =============================================================================

func buildSite(call *sitter.Node, content []byte, path string, funcParams map[string][]string) (Site, bool) {
	fnNode := call.ChildByFieldName("function")
	argsNode := call.ChildByFieldName("arguments")
	if fnNode == nil || argsNode == nil {
		return Site{}, false
	}

	callee, isMember := calleeName(fnNode, content)

	var positional [][]string
	var rawArgs []string
	for i := 0; i < int(argsNode.ChildCount()); i++ {
		arg := argsNode.Child(i)
		if arg == nil || !arg.IsNamed() {
			continue
		}
		positional = append(positional, collectArgNames(arg, content))
		rawArgs = append(rawArgs, text(arg, content))
	}
	if len(positional) < 2 {
		return Site{}, false
	}

	argListText := text(argsNode, content)

	site := Site{
		CallSite: checker.CallSite{
			FullyQualifiedName: callee,
			ParamNames:         funcParams[callee],
			IsVariadic:         strings.Contains(argListText, "..."),
			IsMember:           isMember,
			PositionalArgNames: positional,
		},
		Line:    int(call.StartPoint().Row) + 1,
		Column:  int(call.StartPoint().Column),
		RawLine: lineAt(content, int(call.StartPoint().Row)),
		ArgText: rawArgs,
	}
	return site, true
}

// calleeName returns the callee's bare name and whether the call is a
// member/selector call (x.Method(...) vs f(...)).
func calleeName(fn *sitter.Node, content []byte) (string, bool) {
	switch fn.Type() {
	case "identifier":
		return text(fn, content), false
	case "selector_expression":
		field := fn.ChildByFieldName("field")
		if field != nil {
			return text(field, content), true
		}
	}
	return text(fn, content), false
}

// collectArgNames walks a single argument expression and extracts the
// ordered list of identifiers the producer contract derives from it.
func collectArgNames(node *sitter.Node, content []byte) []string {
	var names []string

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "identifier":
			names = append(names, text(n, content))
		case "int_literal", "float_literal", "imaginary_literal", "rune_literal",
			"interpreted_string_literal", "raw_string_literal":
			names = append(names, "LIT:"+text(n, content))
		case "selector_expression":
			if field := n.ChildByFieldName("field"); field != nil {
				names = append(names, text(field, content))
			}
		case "index_expression":
			if operand := n.ChildByFieldName("operand"); operand != nil {
				names = append(names, baseName(operand, content))
			}
		case "call_expression":
			if fn := n.ChildByFieldName("function"); fn != nil {
				name, _ := calleeName(fn, content)
				names = append(names, name)
			}
		case "unary_expression":
			visit(n.ChildByFieldName("operand"))
		default:
			for i := 0; i < int(n.ChildCount()); i++ {
				visit(n.Child(i))
			}
		}
	}
	visit(node)
	return names
}

// baseName returns the identifier-like name at the root of operand,
// recursing through selectors so x.y[i] yields "y".
func baseName(n *sitter.Node, content []byte) string {
	switch n.Type() {
	case "identifier":
		return text(n, content)
	case "selector_expression":
		if field := n.ChildByFieldName("field"); field != nil {
			return text(field, content)
		}
	}
	return text(n, content)
}

func text(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}

func lineAt(content []byte, row int) string {
	lines := strings.Split(string(content), "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	return lines[row]
}
