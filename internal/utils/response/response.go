package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/zishraq/ecommerce-backend/internal/errors"
)

// APIResponse is the envelope shared by every endpoint: "isSuccess" plus
// either a message/error string or the operation payload under "data".
type APIResponse struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
	Details   any    `json:"details,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// interface {} == any
func WriteJson(w http.ResponseWriter, statusCode int, data any) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data) //struct to json
}

func Success(w http.ResponseWriter, statusCode int, message string, data any) {
	response := APIResponse{
		IsSuccess: true,
		Message:   message,
		Data:      data,
	}

	WriteJson(w, statusCode, response)
}

func Error(w http.ResponseWriter, err error) {

	response := APIResponse{IsSuccess: false}
	statusCode := http.StatusInternalServerError

	if appErr, ok := errors.IsAppError(err); ok {
		statusCode = appErr.StatusCode
		response.Error = appErr.Message
		response.ErrorCode = appErr.Code

		switch {
		case appErr.Payload != nil:
			response.Details = appErr.Payload
		case appErr.Detail != "":
			response.Details = []string{appErr.Detail}
		}

	} else {
		response.Error = "An unexpected error occurred"
		response.ErrorCode = errors.ErrCodeInternal
	}

	WriteJson(w, statusCode, response)
}

// ValidationError renders validator failures. A missing required key wins
// over other failures so the client sees which field to add first.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {

	var errMsgs []string

	code := errors.ErrCodeValidation
	message := "Validation failed"

	for _, err := range errs {

		var msg string

		switch err.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required.", err.Field())
			if code != errors.ErrCodeMissingField {
				code = errors.ErrCodeMissingField
				message = msg
			}
		case "email":
			msg = fmt.Sprintf("Field %s must be a valid email address", err.Field())
		case "min":
			msg = fmt.Sprintf("Field %s must be at least %s", err.Field(), err.Param())
		case "max":
			msg = fmt.Sprintf("Field %s must be at most %s", err.Field(), err.Param())
		case "gt":
			msg = fmt.Sprintf("Field %s must be greater than %s", err.Field(), err.Param())
		case "gte":
			msg = fmt.Sprintf("Field %s must be greater than or equal to %s", err.Field(), err.Param())
		case "lte":
			msg = fmt.Sprintf("Field %s must be less than or equal to %s", err.Field(), err.Param())
		case "oneof":
			msg = fmt.Sprintf("Field %s must be one of: %s", err.Field(), err.Param())
		default:
			msg = fmt.Sprintf("Field %s is invalid: %s=%s", err.Field(), err.Tag(), err.Param())
		}

		errMsgs = append(errMsgs, msg)
	}

	response := APIResponse{
		IsSuccess: false,
		Error:     message,
		ErrorCode: code,
		Details:   errMsgs,
	}

	WriteJson(w, http.StatusBadRequest, response)
}
