package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/roamark/roamark_api/internal/lifecycle"
	"github.com/roamark/roamark_api/util"
	"github.com/roamark/roamark_api/util/tracing"
	"github.com/roamark/roamark_api/util/values"
)

type ServerResponse struct {
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"data,omitempty"`
}

func respondWithError(err error, message string, status string, tc *tracing.Context) *ServerResponse {
	if err != nil {
		if tc != nil {
			log.Printf("[%s] %s: %v", tc.RequestID, message, err)
		} else {
			log.Printf("%s: %v", message, err)
		}
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func writeErrorResponse(w http.ResponseWriter, err error, status string, message string) {
	resp := respondWithError(err, message, status, nil)
	respByte, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

// lifecycleErrorStatus maps lifecycle errors to response statuses so
// handlers report permission and existence failures consistently.
func lifecycleErrorStatus(err error) (string, string) {
	switch {
	case errors.Is(err, lifecycle.ErrSaveNotFound):
		return values.NotFound, "save not found"
	case errors.Is(err, lifecycle.ErrLocationNotFound):
		return values.NotFound, "location not found"
	case errors.Is(err, lifecycle.ErrPhotoNotFound):
		return values.NotFound, "photo not found"
	case errors.Is(err, lifecycle.ErrNotPermitted):
		return values.NotAllowed, "you do not have permission to perform this action"
	case errors.Is(err, lifecycle.ErrDuplicateSave):
		return values.Conflict, "you have already saved this location"
	default:
		return values.Error, "something went wrong"
	}
}
