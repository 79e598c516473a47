// Package parser extracts a coarse structural model (classes, members,
// inheritance and top-level functions) from Java, PHP and Python source for
// UML diagramming.
//
// Extraction is driven by regular expressions, not a grammar. It does not
// build an AST, resolve names or understand nesting, and braces or colons
// inside strings and comments can confuse it. Go's regexp engine runs in
// linear time, so adversarial input cannot trigger catastrophic backtracking.
package parser

// StructuralParser extracts a structural model from source in one language.
// Implementations must be stateless: Parse is a pure function of its input.
type StructuralParser interface {
	Language() Language
	Parse(code string) *StructuralModel
}

// Registry holds the available parsers in dispatch order
type Registry struct {
	parsers []StructuralParser
}

// NewRegistry creates a registry with the built-in Java, PHP and Python parsers.
// Their order is also the concatenation order of merged results.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make([]StructuralParser, 0, 3),
	}

	r.Register(NewJavaParser())
	r.Register(NewPHPParser())
	r.Register(NewPythonParser())

	return r
}

// Register adds a parser to the registry
func (r *Registry) Register(p StructuralParser) {
	r.parsers = append(r.parsers, p)
}

// GetAll returns all registered parsers
func (r *Registry) GetAll() []StructuralParser {
	return r.parsers
}

// Get returns the parser for lang, or nil if none is registered
func (r *Registry) Get(lang Language) StructuralParser {
	for _, p := range r.parsers {
		if p.Language() == lang {
			return p
		}
	}
	return nil
}

// ParseAll runs every registered parser over code and concatenates their
// results in registration order without de-duplication.
func (r *Registry) ParseAll(code string) *StructuralModel {
	merged := NewStructuralModel()
	for _, p := range r.parsers {
		merged.Merge(p.Parse(code))
	}
	return merged
}

// Analysis is the outcome of one Analyze call
type Analysis struct {
	Model    *StructuralModel
	Language Language // Hint as given or detected language; LanguageUnknown when merged after failed detection
	Merged   bool     // True when every parser ran
}

// Analyze resolves the language for code and runs the matching parser.
// hint is normalized first; when empty the language is detected from
// filename and content. A language with no registered parser (an unknown
// hint or a failed detection) runs all parsers and merges their output.
func (r *Registry) Analyze(code, hint, filename string) *Analysis {
	lang := Language(NormalizeHint(hint))
	if lang == LanguageUnknown {
		lang = DetectLanguage(code, filename)
	}

	if p := r.Get(lang); p != nil {
		return &Analysis{
			Model:    p.Parse(code),
			Language: lang,
		}
	}

	return &Analysis{
		Model:    r.ParseAll(code),
		Language: lang,
		Merged:   true,
	}
}

var defaultRegistry = NewRegistry()

// Analyze runs the built-in registry over code. See Registry.Analyze.
func Analyze(code, hint, filename string) (*StructuralModel, Language) {
	a := defaultRegistry.Analyze(code, hint, filename)
	return a.Model, a.Language
}

// AnalyzeDetailed is like Analyze but also reports whether results were merged
func AnalyzeDetailed(code, hint, filename string) *Analysis {
	return defaultRegistry.Analyze(code, hint, filename)
}
