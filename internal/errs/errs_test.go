package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOfWalksWrappedChains(t *testing.T) {
	base := New(CodeTimeout, "crawl job %s timed out", "j1")
	wrapped := fmt.Errorf("pipeline: %w", base)

	if got := CodeOf(wrapped); got != CodeTimeout {
		t.Fatalf("CodeOf = %v, want CRAWL_TIMEOUT", got)
	}
	if !Is(wrapped, CodeTimeout) {
		t.Fatal("Is(wrapped, CodeTimeout) = false")
	}
	if CodeOf(errors.New("plain")) != CodeInternal {
		t.Fatal("uncoded error should default to INTERNAL_ERROR")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeRemote, cause, "crawl start request failed")

	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause lost")
	}
	if err.Error() != "crawl start request failed: connection refused" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeInvalidArg, http.StatusBadRequest},
		{CodeEmptyInput, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeEmptyResult, http.StatusUnprocessableEntity},
		{CodeJobFailed, http.StatusUnprocessableEntity},
		{CodeParse, http.StatusUnprocessableEntity},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeRemote, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{CodeConfiguration, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(New(tc.code, "x")); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.code, got, tc.want)
		}
	}
}
