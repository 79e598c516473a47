package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageFromFilename(t *testing.T) {
	tests := []struct {
		path     string
		expected Language
	}{
		{"Main.java", LanguageJava},
		{"index.php", LanguagePHP},
		{"app.py", LanguagePython},
		{"/path/to/Foo.JAVA", LanguageJava}, // Case insensitive
		{"script.PY", LanguagePython},
		{"README.md", LanguageUnknown},
		{"Makefile", LanguageUnknown},
		{"notes.pyc", LanguageUnknown},
		{"", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, LanguageFromFilename(tt.path))
		})
	}
}

func TestDetectLanguage_FilenameWins(t *testing.T) {
	javaCode := "public class A extends B { private int x; }"

	assert.Equal(t, LanguagePython, DetectLanguage(javaCode, "Foo.py"))
	assert.Equal(t, LanguagePHP, DetectLanguage("def f():\n    pass\n", "legacy.php"))
	assert.Equal(t, LanguageJava, DetectLanguage("<?php echo 1", "Main.java"))
}

func TestDetectLanguage_Heuristics(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected Language
	}{
		{"java heritage", "public class A extends B {}", LanguageJava},
		{"java implements", "class A implements Runnable {}", LanguageJava},
		{"trailing semicolon", "int x = 1;\n", LanguageJava},
		{"php open tag", "<?php echo 'hi' ?>", LanguagePHP},
		{"php function", "function helper($a) { return $a }", LanguagePHP},
		{"python class", "class A(B):\n    pass\n", LanguagePython},
		{"python bare class", "class A:\n    x = 1\n", LanguagePython},
		{"python def", "def main():\n    print('hi')\n", LanguagePython},
		{"php with statements reports java", "<?php\n$a = 1;\n", LanguageJava},
		{"java beats python", "x = 1;\ndef f():\n    pass\n", LanguageJava},
		{"php beats python", "function a() {}\ndef b():\n    pass\n", LanguagePHP},
		{"plain text", "hello world", LanguageUnknown},
		{"empty", "", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectLanguage(tt.code, ""))
		})
	}
}

func TestDetectCandidates(t *testing.T) {
	assert.Equal(t,
		[]Language{LanguageJava, LanguagePython},
		DetectCandidates("int x;\ndef f(a):\n    return a\n"))

	assert.Equal(t,
		[]Language{LanguageJava, LanguagePHP},
		DetectCandidates("<?php\nfunction f($a) {\n  return $a;\n}\n"))

	assert.Empty(t, DetectCandidates("just words"))
}

func TestNormalizeHint(t *testing.T) {
	assert.Equal(t, "python", NormalizeHint("  Python\n"))
	assert.Equal(t, "", NormalizeHint("   "))
}
