package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/QTest-hq/umlparse/internal/parser"
)

// Messages returned in the analysis envelope
const (
	MessageOK          = "OK"
	MessageNoCode      = "No code provided."
	MessageNothing     = "No classes or functions detected for the selected/auto-detected language."
	MessageTooLarge    = "Uploaded code exceeds the size limit."
	MessageBadRequest  = "Malformed request body."
	MessageRateLimited = "Too many requests, slow down."
)

// AnalyzeResponse is the envelope returned by the analysis endpoints
type AnalyzeResponse struct {
	Success          bool                    `json:"success" yaml:"success"`
	Message          string                  `json:"message" yaml:"message"`
	Result           *parser.StructuralModel `json:"result" yaml:"result"`
	LanguageDetected *string                 `json:"languageDetected" yaml:"languageDetected"`
	Filename         *string                 `json:"filename" yaml:"filename"`
}

// NewAnalyzeResponse builds a success envelope, attaching the informational
// message when nothing was found
func NewAnalyzeResponse(model *parser.StructuralModel, lang parser.Language, filename string) *AnalyzeResponse {
	msg := MessageOK
	if model.IsEmpty() {
		msg = MessageNothing
	}
	return &AnalyzeResponse{
		Success:          true,
		Message:          msg,
		Result:           model,
		LanguageDetected: optional(string(lang)),
		Filename:         optional(filename),
	}
}

// NewFailureResponse builds an envelope with success=false and no result
func NewFailureResponse(message string, lang parser.Language, filename string) *AnalyzeResponse {
	return &AnalyzeResponse{
		Success:          false,
		Message:          message,
		LanguageDetected: optional(string(lang)),
		Filename:         optional(filename),
	}
}

// NewNoCodeResponse builds the failure envelope for blank input. Only the
// hint or the filename can inform the reported language.
func NewNoCodeResponse(hint, filename string) *AnalyzeResponse {
	lang := parser.Language(parser.NormalizeHint(hint))
	if lang == parser.LanguageUnknown {
		lang = parser.LanguageFromFilename(filename)
	}
	return NewFailureResponse(MessageNoCode, lang, filename)
}

// optional maps "" to a JSON null
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// respondJSON writes data as indented JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes a plain {"error": message} body
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondFailure writes an analysis envelope with success=false
func respondFailure(w http.ResponseWriter, status int, message string, lang parser.Language, filename string) {
	respondJSON(w, status, NewFailureResponse(message, lang, filename))
}
