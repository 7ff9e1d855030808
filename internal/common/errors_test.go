package common

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDocumentErrorIs(t *testing.T) {
	cause := errors.New("xref table broken")
	err := DocumentError("/tmp/cv.pdf", cause)

	if !errors.Is(err, ErrDocument) {
		t.Fatal("expected DocumentError to match ErrDocument")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected DocumentError to keep its cause")
	}
	if err.Code != CodeDocument {
		t.Fatalf("Code = %q, want %q", err.Code, CodeDocument)
	}
}

func TestGRPCError(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("candidate: %w", ErrNotFound), codes.NotFound},
		{NewAppError(CodeInput, "bad filter", ErrInvalidInput), codes.InvalidArgument},
		{DocumentError("x.pdf", nil), codes.FailedPrecondition},
		{ErrDuplicate, codes.AlreadyExists},
		{errors.New("boom"), codes.Internal},
		{NotFoundError("already a status"), codes.NotFound},
	}
	for _, tt := range tests {
		got := status.Code(GRPCError(tt.err))
		if got != tt.want {
			t.Fatalf("GRPCError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if GRPCError(nil) != nil {
		t.Fatal("GRPCError(nil) should be nil")
	}
}
