package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeMapping(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidConfig:         1,
		KindConnectionError:       2,
		KindSchemaDrift:           3,
		KindCancellationRequested: 4,
		KindNoCandidates:          1,
		KindConstraintViolation:   1,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.ExitCode(), "kind %s", kind)
	}
}

func TestIsKindMatchesWrappedSimError(t *testing.T) {
	base := New(KindConnectionError, 12, errors.New("dial tcp: timeout"))
	wrapped := fmt.Errorf("bootstrapping week 12: %w", base)

	assert.True(t, IsKind(wrapped, KindConnectionError))
	assert.False(t, IsKind(wrapped, KindSchemaDrift))
}

func TestIsKindFalseForPlainError(t *testing.T) {
	assert.False(t, IsKind(errors.New("boom"), KindInvalidConfig))
}

func TestSimErrorMessageIncludesKindAndWeek(t *testing.T) {
	err := New(KindNoCandidates, 7, errors.New("no available inventory"))
	msg := err.Error()
	assert.Contains(t, msg, string(KindNoCandidates))
	assert.Contains(t, msg, "7")
	assert.Contains(t, msg, "no available inventory")
}

func TestSimErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := New(KindConnectionError, 1, inner)
	assert.Same(t, inner, errors.Unwrap(err))
}
