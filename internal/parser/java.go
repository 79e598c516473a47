package parser

import (
	"regexp"
	"strings"
)

// Java patterns. Class bodies are located with ExtractClassBlocks, so the
// member patterns run over the whole brace block including nested blocks.
var (
	javaClassPattern      = regexp.MustCompile(`\bclass\s+(\w+)[^{]*\{`)
	javaExtendsPattern    = regexp.MustCompile(`\bextends\s+(\w+)`)
	javaImplementsPattern = regexp.MustCompile(`\bimplements\s+([^{]+)`)

	// public static List<String> names = new ArrayList<>();
	javaFieldPattern = regexp.MustCompile(`\b(public|private|protected)\s+(?:static\s+)?([\w<>\[\]]+)\s+(\w+)\s*(?:=\s*[^;]+)?;`)

	// [visibility] [static] [ReturnType] name(params) {
	// Broad on purpose: constructors and some control statements also match.
	javaMethodPattern = regexp.MustCompile(`\b(public|private|protected)?\s*(?:static\s+)?([\w<>\[\]]+)?\s+(\w+)\s*\(([^)]*)\)\s*\{`)
)

// JavaParser extracts classes, fields, methods and inheritance from Java source
type JavaParser struct{}

// NewJavaParser creates a Java structural parser
func NewJavaParser() *JavaParser {
	return &JavaParser{}
}

// Language returns LanguageJava
func (p *JavaParser) Language() Language {
	return LanguageJava
}

// Parse extracts the structural model from Java source. Java has no
// top-level functions, so Functions is always empty.
func (p *JavaParser) Parse(code string) *StructuralModel {
	result := NewStructuralModel()

	for _, b := range ExtractClassBlocks(code, javaClassPattern) {
		cls := ClassInfo{
			Name:       b.Name,
			Attributes: p.parseFields(b.Block),
			Methods:    p.parseMethods(b.Block),
			Implements: make([]string, 0),
		}

		if m := javaExtendsPattern.FindStringSubmatch(b.Header); m != nil {
			parent := m[1]
			cls.Extends = &parent
		}
		if m := javaImplementsPattern.FindStringSubmatch(b.Header); m != nil {
			cls.Implements = splitList(m[1])
		}

		result.AddClass(cls)
	}

	return result
}

func (p *JavaParser) parseFields(block string) []Attribute {
	attrs := make([]Attribute, 0)
	for _, m := range javaFieldPattern.FindAllStringSubmatch(block, -1) {
		attrs = append(attrs, Attribute{
			Name:       m[3],
			Type:       m[2],
			Visibility: m[1],
		})
	}
	return attrs
}

func (p *JavaParser) parseMethods(block string) []Method {
	methods := make([]Method, 0)
	for _, m := range javaMethodPattern.FindAllStringSubmatch(block, -1) {
		vis := strings.TrimSpace(group(m, 1))
		if vis == "" {
			vis = DefaultVisibility
		}
		methods = append(methods, Method{
			Name:       m[3],
			Params:     collapseSpace(group(m, 4)),
			Returns:    strings.TrimSpace(group(m, 2)),
			Visibility: vis,
		})
	}
	return methods
}
