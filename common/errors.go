package common

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"go-nutrition-api/logger"
)

// Machine-readable error codes surfaced to clients.
const (
	CodeUserExists      = "USER_EXISTS"
	CodeInvalidCreds    = "AUTH_001"
	CodeInvalidToken    = "AUTH_002"
	CodeUserNotFound    = "AUTH_003"
	CodeValidationError = "VALIDATION_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// AppError carries the HTTP status, the machine-readable code and a safe
// message. The wrapped Err is logged server-side and never leaves the process.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// errorResponse is the failure envelope returned for every error.
type errorResponse struct {
	Success   bool      `json:"success"`
	Error     *AppError `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// Send writes the error envelope to the client and logs the internal cause.
func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Status,
			"error_code":     e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status)
	json.NewEncoder(w).Encode(errorResponse{
		Success:   false,
		Error:     e,
		Timestamp: time.Now().UTC(),
	})
}
