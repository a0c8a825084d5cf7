package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
)

func TestTranslateHTTPError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{name: "404 maps to ErrNotFound", statusCode: http.StatusNotFound, wantErr: domain.ErrNotFound},
		{name: "400 maps to ErrValidation", statusCode: http.StatusBadRequest, wantErr: domain.ErrValidation},
		{name: "422 maps to ErrValidation", statusCode: http.StatusUnprocessableEntity, wantErr: domain.ErrValidation},
		{name: "409 maps to ErrConflict", statusCode: http.StatusConflict, wantErr: domain.ErrConflict},
		{name: "401 maps to ErrForbidden", statusCode: http.StatusUnauthorized, wantErr: domain.ErrForbidden},
		{name: "403 maps to ErrForbidden", statusCode: http.StatusForbidden, wantErr: domain.ErrForbidden},
		{name: "429 is transient", statusCode: http.StatusTooManyRequests, wantErr: domain.ErrPersistence},
		{name: "500 is transient", statusCode: http.StatusInternalServerError, wantErr: domain.ErrPersistence},
		{name: "503 is transient", statusCode: http.StatusServiceUnavailable, wantErr: domain.ErrPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := &http.Response{
				StatusCode: tt.statusCode,
				Header:     http.Header{},
				Body:       http.NoBody,
			}

			got := TranslateHTTPError("POST /api/v1/users", resp)

			if !errors.Is(got, tt.wantErr) {
				t.Errorf("TranslateHTTPError() = %v, want errors.Is %v", got, tt.wantErr)
			}
			if !strings.Contains(got.Error(), "POST /api/v1/users") {
				t.Errorf("TranslateHTTPError() = %q, want the operation in the message", got)
			}
		})
	}
}

func TestTranslateHTTPError_ClientErrorsAreNotTransient(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusTeapot} {
		resp := &http.Response{StatusCode: status, Header: http.Header{}, Body: http.NoBody}
		if err := TranslateHTTPError("op", resp); errors.Is(err, domain.ErrPersistence) {
			t.Errorf("status %d: %v should not be transient", status, err)
		}
	}
}

func TestTranslateHTTPError_ProblemDetailFields(t *testing.T) {
	t.Parallel()

	body := `{"detail":"invalid user","errors":[{"location":"body.email","message":"is required"}]}`
	resp := &http.Response{
		StatusCode: http.StatusUnprocessableEntity,
		Header:     http.Header{"Content-Type": []string{"application/problem+json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}

	err := TranslateHTTPError("POST /api/v1/users", resp)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("TranslateHTTPError() = %v, want *domain.ValidationError", err)
	}
	if got := verr.Fields["email"]; got != "is required" {
		t.Errorf("Fields[email] = %q, want %q", got, "is required")
	}
}

func TestTranslateHTTPError_DetailUsedInMessage(t *testing.T) {
	t.Parallel()

	resp := &http.Response{
		StatusCode: http.StatusConflict,
		Header:     http.Header{"Content-Type": []string{"application/problem+json"}},
		Body:       io.NopCloser(strings.NewReader(`{"detail":"email already taken"}`)),
	}

	err := TranslateHTTPError("POST /api/v1/users", resp)
	if !strings.Contains(err.Error(), "email already taken") {
		t.Errorf("TranslateHTTPError() = %q, want detail in message", err)
	}
}

func TestTranslateTransportError(t *testing.T) {
	t.Parallel()

	if err := translateTransportError("op", errors.New("connection refused")); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("network failure = %v, want transient", err)
	}
	if err := translateTransportError("op", context.Canceled); errors.Is(err, domain.ErrPersistence) || !errors.Is(err, context.Canceled) {
		t.Errorf("cancellation = %v, want context.Canceled and not transient", err)
	}
}
