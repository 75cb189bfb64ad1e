package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/vanyajewels/storefront/pkg/apperr"
)

func TestStatusOf(t *testing.T) {
	if got := apperr.StatusOf(apperr.NotFound("gone")); got != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got)
	}
	if got := apperr.StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("expected 500 for plain error, got %d", got)
	}
	if got := apperr.StatusOf(nil); got != http.StatusInternalServerError {
		t.Errorf("expected 500 for nil, got %d", got)
	}
}

func TestWrappedErrorsSurvivesErrorsAs(t *testing.T) {
	inner := apperr.Forbidden("no entry")
	wrapped := fmt.Errorf("handler: %w", inner)

	e, ok := apperr.As(wrapped)
	if !ok {
		t.Fatal("expected apperr.As to find the typed error")
	}
	if e.Status != http.StatusForbidden || e.Message != "no entry" {
		t.Errorf("unexpected error: %+v", e)
	}
	if apperr.StatusOf(wrapped) != http.StatusForbidden {
		t.Error("StatusOf should see through wrapping")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := apperr.Wrap(http.StatusInternalServerError, "upload failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if err.Error() != "upload failed: disk full" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestBadRequestf(t *testing.T) {
	err := apperr.BadRequestf("Cannot update field: %s", "otp")
	if err.Message != "Cannot update field: otp" {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if err.Status != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", err.Status)
	}
}
