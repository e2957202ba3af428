// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints,
// including structured error envelopes and helpers for common HTTP patterns.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error formatting and logs 5xx responses with request
//     context; `failInternal()` logs the underlying cause and hides it from
//     the client.
//   - `failValidation()` attaches per-field details for malformed payloads.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "validation_failed",
//	  "message": "invalid payment data",
//	  "errors": [{"field": "planId", "tag": "required", "message": "planId is required"}]
//	}
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-recharge-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"plan not found"`
	// Per-field problems for schema failures
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field" example:"planId"`
	Tag     string `json:"tag" example:"required"`
	Message string `json:"message" example:"planId is required"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	failWith(c, status, ErrorResponse{Code: code, Message: msg})
}

func failWith(c *gin.Context, status int, resp ErrorResponse) {
	resp.RequestID = c.Writer.Header().Get("X-Request-ID")

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", resp.Code).
			Str("message", resp.Message).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// failInternal logs err and answers 500 with a generic message.
func failInternal(c *gin.Context, err error) {
	middleware.LoggerFrom(c).Error().Err(err).Msg("unexpected failure")
	fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}

// failValidation answers 400 with the field errors extracted from a bind error.
func failValidation(c *gin.Context, msg string, err error) {
	failWith(c, http.StatusBadRequest, ErrorResponse{
		Code:    ErrCodeValidation,
		Message: msg,
		Errors:  fieldErrors(err),
	})
}

// Fail is the exported variant of fail().
//
// External packages (e.g., router setup) should call Fail to return
// consistent error envelopes without directly depending on unexported helpers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// fieldErrors flattens validator and JSON decoding errors.
func fieldErrors(err error) []FieldError {
	var (
		ve  validator.ValidationErrors
		ute *json.UnmarshalTypeError
		se  *json.SyntaxError
	)
	switch {
	case errors.As(err, &ve):
		out := make([]FieldError, 0, len(ve))
		for _, fe := range ve {
			out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: describe(fe)})
		}
		return out
	case errors.As(err, &ute):
		return []FieldError{{
			Field:   ute.Field,
			Tag:     "type",
			Message: fmt.Sprintf("%s must be a %s", ute.Field, jsonKind(ute.Type.Kind().String())),
		}}
	case errors.As(err, &se), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return []FieldError{{Field: "", Tag: "json", Message: "request body must be a JSON object"}}
	}
	return []FieldError{{Field: "", Tag: "invalid", Message: err.Error()}}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "numeric":
		return fe.Field() + " must contain digits only"
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "float32", "float64":
		return "number"
	case "bool":
		return "boolean"
	case "string":
		return "string"
	}
	return goKind
}
