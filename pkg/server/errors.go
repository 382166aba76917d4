package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/storyforge/pkg/errors"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Report  any         `json:"report,omitempty"`
}

// statuses maps error classes to HTTP statuses. A store failure is the
// fault of the backend behind the API, hence 502.
var statuses = map[errors.Class]int{
	errors.ClassInput:       http.StatusBadRequest,
	errors.ClassNotFound:    http.StatusNotFound,
	errors.ClassConflict:    http.StatusConflict,
	errors.ClassRejected:    http.StatusUnprocessableEntity,
	errors.ClassUnavailable: http.StatusBadGateway,
	errors.ClassUnsupported: http.StatusNotImplemented,
}

func status(code errors.Code) int {
	if code == errors.ErrCodeTimeout {
		return http.StatusGatewayTimeout
	}
	if st, ok := statuses[code.Class()]; ok {
		return st
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorReport(w, r, err, nil)
}

func (s *Server) writeErrorReport(w http.ResponseWriter, r *http.Request, err error, report any) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	st := status(code)
	resp := errorResponse{Code: code, Message: errors.UserMessage(err), Report: report}
	if st == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		resp.Message = "an unexpected internal error occurred"
	}
	writeJSON(w, st, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
