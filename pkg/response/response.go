// Package response writes the storefront's JSON envelope.
//
// Every success body is {"success":true, ...} and every failure body is
// {"success":false,"message":...} with the HTTP status chosen per error kind.
// Controllers never build error bodies themselves; they hand the error to
// FromError.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vanyajewels/storefront/pkg/apperr"
	"github.com/vanyajewels/storefront/pkg/logger"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 with data.
func Success(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// SuccessMessage sends a 200 with a message and optional data.
func SuccessMessage(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 with data.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// CreatedMessage sends a 201 with a message only.
func CreatedMessage(w http.ResponseWriter, message string) {
	write(w, http.StatusCreated, envelope{Success: true, Message: message})
}

// Raw sends an arbitrary body with success flag already embedded by the
// caller. Used for responses that carry extra top-level keys (e.g. results).
func Raw(w http.ResponseWriter, status int, body any) {
	write(w, status, body)
}

// Error sends an error envelope with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Message: message})
}

// ValidationError joins field errors (in field order) into the single
// message the API has always returned for schema violations.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(errs))
	for _, f := range fields {
		msgs = append(msgs, errs[f])
	}
	Error(w, http.StatusBadRequest, strings.Join(msgs, ", "))
}

// FromError maps any error to the wire taxonomy:
//
//	*apperr.Error           → its status and message
//	mongo duplicate key     → 400 "This <field> is already registered."
//	mongo.ErrNoDocuments    → 404
//	expired JWT             → 401 "Token has expired"
//	other JWT errors        → 401 "Invalid token"
//	anything else           → 500 generic message
func FromError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	if e, ok := apperr.As(err); ok {
		Error(w, e.Status, e.Message)
		return
	}

	switch {
	case mongo.IsDuplicateKeyError(err):
		Error(w, http.StatusBadRequest, "This "+duplicateField(err)+" is already registered.")

	case errors.Is(err, mongo.ErrNoDocuments):
		Error(w, http.StatusNotFound, "Not found")

	case errors.Is(err, jwt.ErrTokenExpired):
		Error(w, http.StatusUnauthorized, "Token has expired")

	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		Error(w, http.StatusUnauthorized, "Invalid token")

	default:
		logger.Error("unhandled error", "error", err)
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// duplicateField digs the offending index field out of a mongo duplicate-key
// write error. Falls back to "field" when the shape is unexpected.
func duplicateField(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				if f := fieldFromDupMessage(e.Message); f != "" {
					return f
				}
			}
		}
	}
	return "field"
}

// fieldFromDupMessage parses `... index: phone_1 dup key ...` style messages.
func fieldFromDupMessage(msg string) string {
	const marker = "index: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, "_ "); j >= 0 {
		return rest[:j]
	}
	return rest
}
