package parser

import (
	"regexp"
	"strings"
)

// Content heuristics, evaluated only when the filename is inconclusive
var (
	javaHeritageHint = regexp.MustCompile(`\bclass\s+\w+\s*(?:extends|implements)`)
	javaStatementEnd = regexp.MustCompile(`(?m);\s*$`)

	phpOpenTag      = regexp.MustCompile(`<\?php`)
	phpFunctionHint = regexp.MustCompile(`\bfunction\s+\w+\s*\(`)

	pyClassHint = regexp.MustCompile(`(?m)^class\s+\w+\s*(\([^)]*\))?:\s*$`)
	pyDefHint   = regexp.MustCompile(`(?m)^\s*def\s+\w+\s*\(`)
)

// extensionOrder is checked in order; the first suffix match wins
var extensionOrder = []struct {
	ext  string
	lang Language
}{
	{".java", LanguageJava},
	{".php", LanguagePHP},
	{".py", LanguagePython},
}

// LanguageFromFilename maps a file name to a language by extension, case-insensitively
func LanguageFromFilename(filename string) Language {
	lower := strings.ToLower(filename)
	for _, e := range extensionOrder {
		if strings.HasSuffix(lower, e.ext) {
			return e.lang
		}
	}
	return LanguageUnknown
}

// DetectLanguage picks a language for code. The filename extension takes
// precedence; otherwise the content heuristics are consulted and the first
// matching language in the order java, php, python is returned. This is a
// best-effort classifier: most PHP files also end lines with ';' and are
// therefore reported as java unless named or hinted.
func DetectLanguage(code, filename string) Language {
	if lang := LanguageFromFilename(filename); lang != LanguageUnknown {
		return lang
	}
	if code == "" {
		return LanguageUnknown
	}

	candidates := DetectCandidates(code)
	if len(candidates) == 0 {
		return LanguageUnknown
	}
	return candidates[0]
}

// DetectCandidates returns every language whose content heuristic matches,
// in priority order java, php, python.
func DetectCandidates(code string) []Language {
	candidates := make([]Language, 0, 3)

	if javaHeritageHint.MatchString(code) || javaStatementEnd.MatchString(code) {
		candidates = append(candidates, LanguageJava)
	}
	if phpOpenTag.MatchString(code) || phpFunctionHint.MatchString(code) {
		candidates = append(candidates, LanguagePHP)
	}
	if pyClassHint.MatchString(code) || pyDefHint.MatchString(code) {
		candidates = append(candidates, LanguagePython)
	}

	return candidates
}

// NormalizeHint lower-cases and trims a caller-supplied language hint
func NormalizeHint(hint string) string {
	return strings.ToLower(strings.TrimSpace(hint))
}
