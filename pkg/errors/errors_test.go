package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("socket closed")
	err := Wrap(CodeNetwork, cause, "backend call failed")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected cause to survive wrapping")
	}
	if !IsCode(err, CodeNetwork) {
		t.Fatalf("expected network code, got %v", err.Code())
	}
	wrapped := fmt.Errorf("handler: %w", err)
	if typed := As(wrapped); typed == nil || typed.Code() != CodeNetwork {
		t.Fatalf("As must see through fmt wrapping")
	}
}

func TestFromStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   Code
	}{
		{http.StatusBadRequest, CodeValidation},
		{http.StatusUnauthorized, CodeUnauthorized},
		{http.StatusForbidden, CodeForbidden},
		{http.StatusNotFound, CodeNotFound},
		{http.StatusConflict, CodeConflict},
		{http.StatusInternalServerError, CodeDependency},
		{http.StatusBadGateway, CodeDependency},
		{http.StatusTeapot, CodeInternal},
	}
	for _, tc := range cases {
		if got := FromStatus(tc.status, "x").Code(); got != tc.want {
			t.Fatalf("status %d: expected %s, got %s", tc.status, tc.want, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestDumpWalksChain(t *testing.T) {
	t.Parallel()

	root := stdErrors.New("root")
	err := Wrap(CodeStorage, fmt.Errorf("mid: %w", root), "persist failed")

	dump := Dump(err)
	if dump.Code != string(CodeStorage) {
		t.Fatalf("unexpected code %q", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected the full chain, got %v", dump.Chain)
	}
}
