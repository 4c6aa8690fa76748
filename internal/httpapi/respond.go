package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"google.golang.org/api/googleapi"

	"mytasks/internal/service"
)

// maxBodyBytes limits request bodies accepted from the browser.
const maxBodyBytes = 1 << 20

// Error codes in the "error" field of error responses.
const (
	codeError        = "Error"
	codeUnauthorized = "Unauthorized"
	codeValidation   = "ValidationError"
	codeNotFound     = "NotFound"
)

type errorResponse struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Details []service.Issue `json:"details,omitempty"`
}

// validator is implemented by every input and response type of package service.
type validator interface {
	Validate() error
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

// writeInvalid answers 400 with the issues of a validation failure.
func writeInvalid(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: codeValidation, Message: "invalid request"}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		resp.Details = verr.Issues
		if len(verr.Issues) == 1 {
			resp.Message = verr.Issues[0].Field + ": " + verr.Issues[0].Message
		}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// decodeJSON reads a single JSON value from the body. Unknown fields are
// ignored. Any failure is reported as a *service.ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		msg := "invalid JSON"
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			msg = "body too large"
		case errors.Is(err, io.EOF):
			msg = "body is required"
		}
		return &service.ValidationError{Issues: []service.Issue{{Field: "body", Message: msg}}}
	}
	if dec.More() {
		return &service.ValidationError{Issues: []service.Issue{{Field: "body", Message: "multiple JSON values"}}}
	}
	return nil
}

// decodeValid decodes and validates the body into v. On failure it writes the
// 400 response and returns false.
func decodeValid[T validator](w http.ResponseWriter, r *http.Request, v *T) bool {
	if err := decodeJSON(w, r, v); err != nil {
		writeInvalid(w, err)
		return false
	}
	if err := (*v).Validate(); err != nil {
		writeInvalid(w, err)
		return false
	}
	return true
}

// statusOf returns the HTTP status carried by a backend error, or 0.
func statusOf(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func backendMessage(err error, fallback string) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// relayError answers with the backend's status and message when err carries
// one, and with 500 and the fallback message otherwise.
func (s *Server) relayError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if code := statusOf(err); code >= 400 && code <= 599 {
		s.log(r).Debug("backend error relayed", "status", code, "err", err)
		writeError(w, code, codeError, backendMessage(err, fallback))
		return
	}
	s.log(r).Error(fallback, "err", err)
	writeError(w, http.StatusInternalServerError, codeError, fallback)
}

// rejectResponse answers 500 for a backend response that failed validation.
func (s *Server) rejectResponse(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	s.log(r).Error("invalid backend response", "action", fallback, "err", err)
	writeError(w, http.StatusInternalServerError, codeError, fallback)
}
