package helpers

import (
	"errors"
	"log"
	"net/http"

	"github.com/unrolled/render"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ManageResponse is the envelope used by the taxonomy and banner endpoints.
type ManageResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// WriteError maps err onto a status code and writes {"error": message}.
// Internal failures are logged and replaced by a generic message.
func WriteError(rnd *render.Render, w http.ResponseWriter, where string, err error) {
	status := StatusFromError(err)
	resp := ErrorResponse{Error: err.Error()}

	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Printf("%s: %v", where, err)
		resp.Error = "internal server error"
	}
	if status == http.StatusBadGateway {
		resp.Error = "storage service unavailable"
	}
	_ = rnd.JSON(w, status, resp)
}

func WriteManageError(rnd *render.Render, w http.ResponseWriter, where string, err error) {
	status := StatusFromError(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Printf("%s: %v", where, err)
		msg = "internal server error"
	}
	_ = rnd.JSON(w, status, ManageResponse{Success: false, Error: msg})
}

func WriteManageData(rnd *render.Render, w http.ResponseWriter, status int, data interface{}) {
	_ = rnd.JSON(w, status, ManageResponse{Success: true, Data: data})
}
