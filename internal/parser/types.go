package parser

// Language represents a programming language
type Language string

const (
	LanguageJava    Language = "java"
	LanguagePHP     Language = "php"
	LanguagePython  Language = "python"
	LanguageUnknown Language = ""
)

// Relationship kinds
const (
	RelationExtends    = "extends"
	RelationImplements = "implements"
)

// DefaultVisibility is used when a member declares no visibility keyword
const DefaultVisibility = "public"

// StructuralModel is the coarse structure extracted from one piece of source
type StructuralModel struct {
	Classes       []ClassInfo        `json:"classes" yaml:"classes"`
	Functions     []FunctionInfo     `json:"functions" yaml:"functions"`
	Relationships []RelationshipInfo `json:"relationships" yaml:"relationships"`
}

// ClassInfo represents a parsed class
type ClassInfo struct {
	Name       string      `json:"name" yaml:"name"`
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
	Methods    []Method    `json:"methods" yaml:"methods"`
	Extends    *string     `json:"extends" yaml:"extends"` // Primary parent, nil when absent
	Implements []string    `json:"implements" yaml:"implements"`
}

// Attribute represents a class field or property
type Attribute struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Visibility string `json:"visibility" yaml:"visibility"`
}

// Method represents a class method
type Method struct {
	Name       string `json:"name" yaml:"name"`
	Params     string `json:"params" yaml:"params"` // Raw, whitespace-collapsed
	Returns    string `json:"returns" yaml:"returns"`
	Visibility string `json:"visibility" yaml:"visibility"`
}

// FunctionInfo represents a top-level function
type FunctionInfo struct {
	Name    string `json:"name" yaml:"name"`
	Params  string `json:"params" yaml:"params"`
	Returns string `json:"returns" yaml:"returns"`
}

// RelationshipInfo is a candidate inheritance edge. To is not required to
// resolve to a class in the same model.
type RelationshipInfo struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Type string `json:"type" yaml:"type"`
}

// ClassBlock is a brace-delimited class declaration located in source text
type ClassBlock struct {
	Name   string
	Header string // From the match start up to, not including, the opening brace
	Block  string // Opening brace through matching closing brace
}

// NewStructuralModel returns an empty model whose sequences encode as [] rather than null
func NewStructuralModel() *StructuralModel {
	return &StructuralModel{
		Classes:       make([]ClassInfo, 0),
		Functions:     make([]FunctionInfo, 0),
		Relationships: make([]RelationshipInfo, 0),
	}
}

// IsEmpty reports whether no classes and no functions were found.
// Relationships are not considered since they only exist alongside classes.
func (m *StructuralModel) IsEmpty() bool {
	return m == nil || (len(m.Classes) == 0 && len(m.Functions) == 0)
}

// AddClass appends a class and its relationship edges in declaration order:
// extends first, then each implemented name.
func (m *StructuralModel) AddClass(cls ClassInfo) {
	if cls.Attributes == nil {
		cls.Attributes = make([]Attribute, 0)
	}
	if cls.Methods == nil {
		cls.Methods = make([]Method, 0)
	}
	if cls.Implements == nil {
		cls.Implements = make([]string, 0)
	}

	m.Classes = append(m.Classes, cls)

	if cls.Extends != nil && *cls.Extends != "" {
		m.Relationships = append(m.Relationships, RelationshipInfo{
			From: cls.Name,
			To:   *cls.Extends,
			Type: RelationExtends,
		})
	}
	for _, iface := range cls.Implements {
		m.Relationships = append(m.Relationships, RelationshipInfo{
			From: cls.Name,
			To:   iface,
			Type: RelationImplements,
		})
	}
}

// Merge appends every sequence of other onto m. No de-duplication is done.
func (m *StructuralModel) Merge(other *StructuralModel) {
	if other == nil {
		return
	}
	m.Classes = append(m.Classes, other.Classes...)
	m.Functions = append(m.Functions, other.Functions...)
	m.Relationships = append(m.Relationships, other.Relationships...)
}
