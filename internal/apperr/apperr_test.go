package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/blog-comment-service/internal/apperr"
)

func TestAsThroughWrapping(t *testing.T) {
	base := apperr.Policy(apperr.CodeDepthExceeded, "too deep")
	wrapped := fmt.Errorf("creating comment: %w", base)

	e, ok := apperr.As(wrapped)
	if !ok {
		t.Fatal("As should find the classified error through fmt.Errorf wrapping")
	}
	if e.Code != apperr.CodeDepthExceeded || e.Kind != apperr.KindPolicy {
		t.Errorf("got %+v", e)
	}
}

func TestIsKind(t *testing.T) {
	err := apperr.Permission(apperr.CodeNotAuthor, "not yours")

	if !apperr.IsKind(err, apperr.KindPermission) {
		t.Error("expected KindPermission")
	}
	if apperr.IsKind(err, apperr.KindPolicy) {
		t.Error("wrong kind must not match")
	}
	if apperr.IsKind(errors.New("plain"), apperr.KindPolicy) {
		t.Error("unclassified errors carry no kind")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("bad pattern")
	err := apperr.Validation(apperr.CodeInvalidArgument, "pattern does not compile").Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
	if err.Error() != "pattern does not compile: bad pattern" {
		t.Errorf("Error() = %q", err.Error())
	}
}
