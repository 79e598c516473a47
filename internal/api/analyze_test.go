package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QTest-hq/umlparse/internal/parser"
)

const javaSample = `public class Dog extends Animal implements Pet, Comparable<Dog> {
    private String name;
    public void bark() { }
}`

func postForm(t *testing.T, server *Server, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	return rr
}

func postMultipart(t *testing.T, server *Server, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) AnalyzeResponse {
	t.Helper()
	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func TestAnalyze_FormCode(t *testing.T) {
	server := newTestServer(t, testConfig())

	for _, path := range []string{"/", "/api/v1/analyze"} {
		t.Run(path, func(t *testing.T) {
			rr := postForm(t, server, path, url.Values{"code": {javaSample}})

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
			_, err := uuid.Parse(rr.Header().Get("X-Analysis-ID"))
			assert.NoError(t, err)

			resp := decodeEnvelope(t, rr)
			assert.True(t, resp.Success)
			assert.Equal(t, MessageOK, resp.Message)
			require.NotNil(t, resp.LanguageDetected)
			assert.Equal(t, "java", *resp.LanguageDetected)
			assert.Nil(t, resp.Filename)

			require.NotNil(t, resp.Result)
			require.Len(t, resp.Result.Classes, 1)
			dog := resp.Result.Classes[0]
			assert.Equal(t, "Dog", dog.Name)
			require.NotNil(t, dog.Extends)
			assert.Equal(t, "Animal", *dog.Extends)
			assert.Equal(t, []string{"Pet", "Comparable<Dog>"}, dog.Implements)
			assert.Len(t, resp.Result.Relationships, 3)
		})
	}
}

func TestAnalyze_LanguageHint(t *testing.T) {
	server := newTestServer(t, testConfig())

	code := "class Shape:\n    def area(self):\n        return 0\n"
	rr := postForm(t, server, "/", url.Values{"code": {code}, "language": {" Python "}})
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.LanguageDetected)
	assert.Equal(t, "python", *resp.LanguageDetected)
	require.Len(t, resp.Result.Classes, 1)
	assert.Equal(t, "Shape", resp.Result.Classes[0].Name)
	require.Len(t, resp.Result.Classes[0].Methods, 1)
	assert.Equal(t, "area", resp.Result.Classes[0].Methods[0].Name)
}

func TestAnalyze_BlankCode(t *testing.T) {
	server := newTestServer(t, testConfig())

	tests := []struct {
		name     string
		values   url.Values
		wantLang *string
	}{
		{"missing", url.Values{}, nil},
		{"whitespace", url.Values{"code": {"  \n\t "}}, nil},
		{"with hint", url.Values{"code": {""}, "language": {"PHP"}}, optional("php")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postForm(t, server, "/", tt.values)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			resp := decodeEnvelope(t, rr)
			assert.False(t, resp.Success)
			assert.Equal(t, MessageNoCode, resp.Message)
			assert.Nil(t, resp.Result)
			assert.Equal(t, tt.wantLang, resp.LanguageDetected)
		})
	}
}

func TestAnalyze_MultipartFileOverridesCode(t *testing.T) {
	server := newTestServer(t, testConfig())

	fileContent := "<?php\nclass Repo {\n    private $items = [];\n    public function all() { return $this->items; }\n}\n"
	rr := postMultipart(t, server, map[string]string{"code": "def ignored(): pass"}, "Repo.php", fileContent)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.LanguageDetected)
	assert.Equal(t, "php", *resp.LanguageDetected)
	require.NotNil(t, resp.Filename)
	assert.Equal(t, "Repo.php", *resp.Filename)

	require.Len(t, resp.Result.Classes, 1)
	repo := resp.Result.Classes[0]
	assert.Equal(t, "Repo", repo.Name)
	require.Len(t, repo.Attributes, 1)
	assert.Equal(t, "$items", repo.Attributes[0].Name)
	assert.Empty(t, resp.Result.Functions)
}

func TestAnalyze_MultipartBlankFileKeepsCode(t *testing.T) {
	server := newTestServer(t, testConfig())

	rr := postMultipart(t, server, map[string]string{"code": "def helper(a, b):\n    return a\n"}, "empty.py", "   \n")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.LanguageDetected)
	assert.Equal(t, "python", *resp.LanguageDetected)
	require.Len(t, resp.Result.Functions, 1)
	assert.Equal(t, "helper", resp.Result.Functions[0].Name)
	assert.Equal(t, "a, b", resp.Result.Functions[0].Params)
}

func TestAnalyze_MultipartFilenameSelectsParser(t *testing.T) {
	server := newTestServer(t, testConfig())

	rr := postMultipart(t, server, nil, "shapes.py", "class Circle(Shape):\n    def __init__(self, r):\n        self.r = r\n")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.LanguageDetected)
	assert.Equal(t, "python", *resp.LanguageDetected)
	require.Len(t, resp.Result.Classes, 1)
	assert.Equal(t, []parser.Attribute{{Name: "r", Type: "", Visibility: "public"}}, resp.Result.Classes[0].Attributes)
}

func TestAnalyze_JSONBody(t *testing.T) {
	server := newTestServer(t, testConfig())

	body, err := json.Marshal(AnalyzeRequest{Code: javaSample, Filename: "Dog.java"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.Filename)
	assert.Equal(t, "Dog.java", *resp.Filename)
	require.Len(t, resp.Result.Classes, 1)
}

func TestAnalyze_MalformedJSON(t *testing.T) {
	server := newTestServer(t, testConfig())

	req := httptest.NewRequest("POST", "/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeEnvelope(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, MessageBadRequest, resp.Message)
}

func TestAnalyze_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadBytes = 1024
	server := newTestServer(t, cfg)

	code := strings.Repeat("x", 4096)
	rr := postForm(t, server, "/", url.Values{"code": {code}})

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	resp := decodeEnvelope(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, MessageTooLarge, resp.Message)
}

func TestAnalyze_NothingFound(t *testing.T) {
	server := newTestServer(t, testConfig())

	rr := postForm(t, server, "/", url.Values{"code": {"int x = 1;\nint y = 2;"}})
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeEnvelope(t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, MessageNothing, resp.Message)
	require.NotNil(t, resp.Result)
	assert.Empty(t, resp.Result.Classes)
	assert.Empty(t, resp.Result.Functions)
}

func TestAnalyze_UndetectedLanguageMerges(t *testing.T) {
	server := newTestServer(t, testConfig())

	// No detector signal matches, so all parsers run
	code := "interface Noop {}\nclass Thing {\n}\n"
	rr := postForm(t, server, "/", url.Values{"code": {code}})
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeEnvelope(t, rr)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.LanguageDetected)
	// Java and PHP share the class pattern
	require.Len(t, resp.Result.Classes, 2)
	assert.Equal(t, "Thing", resp.Result.Classes[0].Name)
	assert.Equal(t, "Thing", resp.Result.Classes[1].Name)
}

func TestAnalyze_UnknownHintMerges(t *testing.T) {
	server := newTestServer(t, testConfig())

	rr := postForm(t, server, "/", url.Values{"code": {"def run():\n    pass\n"}, "language": {"Ruby"}})
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decodeEnvelope(t, rr)
	require.NotNil(t, resp.LanguageDetected)
	assert.Equal(t, "ruby", *resp.LanguageDetected)
	require.Len(t, resp.Result.Functions, 1)
	assert.Equal(t, "run", resp.Result.Functions[0].Name)
}

func TestAnalyze_EnvelopeShape(t *testing.T) {
	server := newTestServer(t, testConfig())

	rr := postForm(t, server, "/", url.Values{"code": {"int nothing;"}})
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	for _, key := range []string{"success", "message", "result", "languageDetected", "filename"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "null", string(raw["filename"]))

	var result map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["result"], &result))
	assert.Equal(t, "[]", string(result["classes"]))
	assert.Equal(t, "[]", string(result["functions"]))
	assert.Equal(t, "[]", string(result["relationships"]))
}

func TestAnalyze_LogsCandidatesWithoutHint(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	defer func() { log.Logger = orig }()

	server := newTestServer(t, testConfig())

	// Matches the java and python content heuristics
	rr := postForm(t, server, "/", url.Values{"code": {"x = 1;\ndef f(a):\n    return a\n"}})
	require.Equal(t, http.StatusOK, rr.Code)

	var entry struct {
		Message    string   `json:"message"`
		Candidates []string `json:"candidates"`
	}
	found := false
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if err := json.Unmarshal([]byte(line), &entry); err == nil && entry.Message == "content language candidates" {
			found = true
			break
		}
	}
	require.True(t, found, buf.String())
	assert.Equal(t, []string{"java", "python"}, entry.Candidates)

	// A hint skips detection entirely
	buf.Reset()
	rr = postForm(t, server, "/", url.Values{"code": {"def f(a):\n    return a\n"}, "language": {"python"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, buf.String(), "content language candidates")
}
