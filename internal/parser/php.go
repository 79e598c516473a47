package parser

import (
	"regexp"
	"strings"
)

var (
	phpClassPattern   = regexp.MustCompile(`\bclass\s+(\w+)[^{]*\{`)
	phpExtendsPattern = regexp.MustCompile(`\bextends\s+(\w+)`)

	// private static $count = 0;
	phpPropertyPattern = regexp.MustCompile(`\b(public|protected|private)\s+(?:static\s+)?\$(\w+)\s*(?:=\s*[^;]+)?;`)
	phpMethodPattern   = regexp.MustCompile(`\b(public|protected|private)?\s*(?:static\s+)?function\s+(\w+)\s*\(([^)]*)\)`)

	// Anchored at line start but not scope-aware: an unindented function
	// inside a class body is reported here as well.
	phpFunctionPattern = regexp.MustCompile(`(?m)^\s*function\s+(\w+)\s*\(([^)]*)\)`)
)

// PHPParser extracts classes, properties, methods and top-level functions from PHP source.
// Only the extends clause is read; implements lists are ignored.
type PHPParser struct{}

// NewPHPParser creates a PHP structural parser
func NewPHPParser() *PHPParser {
	return &PHPParser{}
}

// Language returns LanguagePHP
func (p *PHPParser) Language() Language {
	return LanguagePHP
}

// Parse extracts the structural model from PHP source
func (p *PHPParser) Parse(code string) *StructuralModel {
	result := NewStructuralModel()

	for _, b := range ExtractClassBlocks(code, phpClassPattern) {
		cls := ClassInfo{
			Name:       b.Name,
			Attributes: p.parseProperties(b.Block),
			Methods:    p.parseMethods(b.Block),
			Implements: make([]string, 0),
		}
		if m := phpExtendsPattern.FindStringSubmatch(b.Header); m != nil {
			parent := m[1]
			cls.Extends = &parent
		}
		result.AddClass(cls)
	}

	for _, m := range phpFunctionPattern.FindAllStringSubmatch(code, -1) {
		result.Functions = append(result.Functions, FunctionInfo{
			Name:   m[1],
			Params: collapseSpace(group(m, 2)),
		})
	}

	return result
}

func (p *PHPParser) parseProperties(block string) []Attribute {
	attrs := make([]Attribute, 0)
	for _, m := range phpPropertyPattern.FindAllStringSubmatch(block, -1) {
		attrs = append(attrs, Attribute{
			Name:       "$" + m[2],
			Visibility: m[1],
		})
	}
	return attrs
}

func (p *PHPParser) parseMethods(block string) []Method {
	methods := make([]Method, 0)
	for _, m := range phpMethodPattern.FindAllStringSubmatch(block, -1) {
		vis := strings.TrimSpace(group(m, 1))
		if vis == "" {
			vis = DefaultVisibility
		}
		methods = append(methods, Method{
			Name:       m[2],
			Params:     collapseSpace(group(m, 3)),
			Visibility: vis,
		})
	}
	return methods
}
