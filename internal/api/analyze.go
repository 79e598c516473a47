package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/QTest-hq/umlparse/internal/parser"
)

// multipartMemory is the in-memory budget for multipart parsing; larger parts spill to disk
const multipartMemory = 1 << 20

// AnalyzeRequest is the JSON request body for an analysis
type AnalyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// errBodyTooLarge marks request bodies over the configured limit
var errBodyTooLarge = errors.New("request body too large")

// analyze accepts code as form fields, an uploaded file or JSON and returns
// the structural model
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	analysisID := uuid.New().String()
	w.Header().Set("X-Analysis-ID", analysisID)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	req, err := readAnalyzeRequest(r)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			recordRejected("too_large")
			respondFailure(w, http.StatusRequestEntityTooLarge, MessageTooLarge, "", "")
			return
		}
		log.Debug().Err(err).Str("analysis_id", analysisID).Msg("failed to read analyze request")
		recordRejected("bad_request")
		respondFailure(w, http.StatusBadRequest, MessageBadRequest, "", "")
		return
	}

	hint := parser.NormalizeHint(req.Language)

	if strings.TrimSpace(req.Code) == "" {
		recordRejected("no_code")
		respondJSON(w, http.StatusBadRequest, NewNoCodeResponse(hint, req.Filename))
		return
	}

	if hint == "" {
		if e := log.Debug(); e.Enabled() {
			e.Str("analysis_id", analysisID).
				Str("filename", req.Filename).
				Strs("candidates", languageNames(parser.DetectCandidates(req.Code))).
				Msg("content language candidates")
		}
	}

	start := time.Now()
	a := s.registry.Analyze(req.Code, hint, req.Filename)
	elapsed := time.Since(start)

	mode, label := "single", string(a.Language)
	if a.Merged {
		mode, label = "merged", "unknown"
	}
	recordAnalysis(label, mode, len(a.Model.Classes), len(a.Model.Functions), len(a.Model.Relationships), elapsed.Seconds())

	log.Info().
		Str("analysis_id", analysisID).
		Str("language", string(a.Language)).
		Str("mode", mode).
		Str("filename", req.Filename).
		Int("bytes", len(req.Code)).
		Int("classes", len(a.Model.Classes)).
		Int("functions", len(a.Model.Functions)).
		Dur("duration", elapsed).
		Msg("analysis complete")

	respondJSON(w, http.StatusOK, NewAnalyzeResponse(a.Model, a.Language, req.Filename))
}

func languageNames(langs []parser.Language) []string {
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = string(l)
	}
	return names
}

// readAnalyzeRequest extracts code, language hint and filename from a JSON,
// multipart or url-encoded body. Uploaded file content replaces inline code
// unless it is blank.
func readAnalyzeRequest(r *http.Request) (*AnalyzeRequest, error) {
	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("invalid content type: %w", err)
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/json":
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if isTooLarge(err) {
				return nil, errBodyTooLarge
			}
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		return &req, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			if isTooLarge(err) {
				return nil, errBodyTooLarge
			}
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}

	default:
		if err := r.ParseForm(); err != nil {
			if isTooLarge(err) {
				return nil, errBodyTooLarge
			}
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
	}

	req := &AnalyzeRequest{
		Code:     r.PostFormValue("code"),
		Language: r.PostFormValue("language"),
	}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()

			content, err := io.ReadAll(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read uploaded file: %w", err)
			}
			req.Filename = header.Filename
			if strings.TrimSpace(string(content)) != "" {
				req.Code = string(content)
			}
		} else if !errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
	}

	return req, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
