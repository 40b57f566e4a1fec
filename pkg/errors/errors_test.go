package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test", 400)
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}

	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}

	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestSentinelMatchesAfterWithInternal(t *testing.T) {
	wrapped := ErrUnauthorized.WithInternal(stdErrors.New("jwt: token is malformed"))

	if !stdErrors.Is(wrapped, ErrUnauthorized) {
		t.Fatal("expected wrapped sentinel to match the original via errors.Is")
	}

	if stdErrors.Is(wrapped, ErrForbidden) {
		t.Fatal("expected wrapped sentinel not to match a different code")
	}
}

func TestFromError(t *testing.T) {
	appErr := ErrTenantNotFound
	if out := FromError(appErr); out != appErr {
		t.Fatal("expected FromError to return the same AppError instance")
	}

	raw := stdErrors.New("raw")
	out := FromError(raw)
	if out.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal server code, got %s", out.Code)
	}
	if out.Internal == nil {
		t.Fatal("expected internal error to be attached")
	}
}

func TestAuthorizationTaxonomyStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrTenantMissing, http.StatusUnauthorized},
		{ErrMissingTenantID, http.StatusBadRequest},
		{ErrTenantNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrOverrideRevoked, http.StatusForbidden},
		{ErrInsufficientRank, http.StatusForbidden},
		{ErrSelfLockout, http.StatusForbidden},
		{ErrSelfDelete, http.StatusForbidden},
		{ErrOverrideConflict, http.StatusConflict},
	}

	for _, tc := range cases {
		if tc.err.StatusCode != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.err.Code, tc.status, tc.err.StatusCode)
		}
	}
}

func TestNewBadRequest(t *testing.T) {
	err := NewBadRequest("invalid payload")
	if err.Code != ErrBadRequest.Code {
		t.Fatalf("expected %s, got %s", ErrBadRequest.Code, err.Code)
	}
	if err.Message != "invalid payload" {
		t.Fatalf("unexpected message: %s", err.Message)
	}
	if err.StatusCode != ErrBadRequest.StatusCode {
		t.Fatalf("unexpected status: %d", err.StatusCode)
	}
}
