package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/rushteam/bagrec/pkg/logging"
	"github.com/rushteam/bagrec/pkg/validation"
)

// errorResponse 是所有非 2xx 响应的结构。
type errorResponse struct {
	Error   string                  `json:"error"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// respondJSON 序列化 v 并写入响应。
func respondJSON(w http.ResponseWriter, status int, v any) {
	logger := logging.Logger()
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, &errorResponse{Error: code, Message: message})
}

func respondValidation(w http.ResponseWriter, err *validation.Error) {
	respondJSON(w, http.StatusUnprocessableEntity, &errorResponse{
		Error:   "validation_error",
		Message: err.Error(),
		Fields:  err.Fields,
	})
}
