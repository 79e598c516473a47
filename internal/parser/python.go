package parser

import (
	"regexp"
	"strings"
)

// Python has no braces; a class body runs from its header to the next
// unindented class statement.
var (
	// class Name(Base1, Base2):
	pyClassPattern     = regexp.MustCompile(`(?m)^class\s+(\w+)\s*(\(([^)]*)\))?:\s*$`)
	pyNextClassPattern = regexp.MustCompile(`(?m)^class\s+\w+`)

	// Indentation is [ \t]+ so a blank line cannot stand in for it
	pyMethodPattern    = regexp.MustCompile(`(?m)^[ \t]+def\s+(\w+)\s*\(([^)]*)\)\s*:`)
	pyAttributePattern = regexp.MustCompile(`(?m)^[ \t]+self\.(\w+)\s*=\s*.+$`)
	pyFunctionPattern  = regexp.MustCompile(`(?m)^def\s+(\w+)\s*\(([^)]*)\)\s*:`)
)

// PythonParser extracts classes, methods, self attributes and top-level
// functions from Python source using indentation conventions.
type PythonParser struct{}

// NewPythonParser creates a Python structural parser
func NewPythonParser() *PythonParser {
	return &PythonParser{}
}

// Language returns LanguagePython
func (p *PythonParser) Language() Language {
	return LanguagePython
}

// Parse extracts the structural model from Python source. The first base
// class is reported as extends and any further bases as implements.
func (p *PythonParser) Parse(code string) *StructuralModel {
	result := NewStructuralModel()

	for _, loc := range pyClassPattern.FindAllStringSubmatchIndex(code, -1) {
		name := code[loc[2]:loc[3]]

		var parents string
		if loc[6] >= 0 {
			parents = strings.TrimSpace(code[loc[6]:loc[7]])
		}

		rest := code[loc[1]:]
		body := rest
		if next := pyNextClassPattern.FindStringIndex(rest); next != nil {
			body = rest[:next[0]]
		}

		cls := ClassInfo{
			Name:       name,
			Attributes: p.parseAttributes(body),
			Methods:    p.parseMethods(body),
			Implements: make([]string, 0),
		}

		if bases := splitList(parents); len(bases) > 0 {
			first := bases[0]
			cls.Extends = &first
			cls.Implements = append(cls.Implements, bases[1:]...)
		}

		result.AddClass(cls)
	}

	for _, m := range pyFunctionPattern.FindAllStringSubmatch(code, -1) {
		// Methods are indented; only column-zero definitions are functions
		if strings.TrimLeft(m[0], " \t\r\n") != m[0] {
			continue
		}
		result.Functions = append(result.Functions, FunctionInfo{
			Name:   m[1],
			Params: collapseSpace(group(m, 2)),
		})
	}

	return result
}

func (p *PythonParser) parseMethods(body string) []Method {
	methods := make([]Method, 0)
	for _, m := range pyMethodPattern.FindAllStringSubmatch(body, -1) {
		methods = append(methods, Method{
			Name:       m[1],
			Params:     collapseSpace(group(m, 2)),
			Visibility: DefaultVisibility,
		})
	}
	return methods
}

// parseAttributes reports every self.x assignment, repeated assignments included
func (p *PythonParser) parseAttributes(body string) []Attribute {
	attrs := make([]Attribute, 0)
	for _, m := range pyAttributePattern.FindAllStringSubmatch(body, -1) {
		attrs = append(attrs, Attribute{
			Name:       m[1],
			Visibility: DefaultVisibility,
		})
	}
	return attrs
}
