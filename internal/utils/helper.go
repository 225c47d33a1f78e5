package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyBody    = errors.New("request body cannot be empty")
	ErrBodyTooLarge = errors.New("request body is too large")
)

// NewValidator reports fields by their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	return validate
}

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {

	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		var maxBytesErr *http.MaxBytesError

		switch {
		case errors.Is(err, io.EOF):
			slog.Warn("Empty request body", slog.String("endpoint", r.URL.Path))
			return ErrEmptyBody
		case errors.As(err, &maxBytesErr):
			slog.Warn("Request body too large", slog.String("endpoint", r.URL.Path), slog.Int64("limit", maxBytesErr.Limit))
			return ErrBodyTooLarge
		}

		slog.Warn("Failed to parse request JSON",
			slog.String("error", err.Error()),
			slog.String("endpoint", r.URL.Path),
		)
		return fmt.Errorf("invalid JSON format: %w", err)
	}

	if decoder.More() {
		slog.Warn("Trailing data after JSON body", slog.String("endpoint", r.URL.Path))
		return errors.New("invalid JSON format: body must hold a single JSON object")
	}

	return nil
}

func ValidateStruct(validate *validator.Validate, data any) error {
	if err := validate.Struct(data); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			slog.Warn("User input validation failed",
				slog.String("error", validationErrs.Error()),
			)
			return fmt.Errorf("validation error: %w", validationErrs)
		}

		slog.Error("Unexpected validation error", slog.String("error", err.Error()))
		return fmt.Errorf("unexpected validation error: %w", err)
	}
	return nil
}
