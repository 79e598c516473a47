package parser

import (
	"regexp"
	"strings"
)

// FindMatchingBrace scans forward from start counting '{' as +1 and '}' as -1
// and returns the index of the '}' that brings depth back to zero, or -1 if
// the text ends first. start should point at or before the opening brace.
//
// Braces inside string literals and comments are counted like any other, so
// such input can desynchronize the result.
func FindMatchingBrace(text string, start int) int {
	if start < 0 || start >= len(text) {
		return -1
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ExtractClassBlocks locates every non-overlapping match of classPattern and
// pairs it with the brace block that follows. The class name is taken from
// the first capture group. Matches without an opening brace or with an
// unbalanced body are skipped.
func ExtractClassBlocks(code string, classPattern *regexp.Regexp) []ClassBlock {
	blocks := make([]ClassBlock, 0)

	for _, loc := range classPattern.FindAllStringSubmatchIndex(code, -1) {
		start := loc[0]

		rel := strings.IndexByte(code[start:], '{')
		if rel < 0 {
			continue
		}
		open := start + rel

		end := FindMatchingBrace(code, open)
		if end < 0 {
			continue
		}

		var name string
		if len(loc) >= 4 && loc[2] >= 0 {
			name = code[loc[2]:loc[3]]
		}

		blocks = append(blocks, ClassBlock{
			Name:   name,
			Header: code[start:open],
			Block:  code[open : end+1],
		})
	}

	return blocks
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseSpace trims s and folds internal whitespace runs to a single space
func collapseSpace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// splitList splits a comma-separated list, trimming entries and dropping empty ones
func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// group returns capture group n of a submatch slice, or "" if it did not participate
func group(m []string, n int) string {
	if n < len(m) {
		return m[n]
	}
	return ""
}
