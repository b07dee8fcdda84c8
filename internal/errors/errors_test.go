package errors

import (
	"errors"
	"testing"
)

func TestWrapf_PreservesCode(t *testing.T) {
	base := FitFailed("observed estimate", errors.New("no convergence"))

	wrapped := Wrapf(base, "factor %q", "group")
	if GetCode(wrapped) != CodeFitFailed {
		t.Errorf("code = %s, want %s", GetCode(wrapped), CodeFitFailed)
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to the original")
	}
	if wrapped.Error() != `factor "group": model fit failed during observed estimate: no convergence` {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}

func TestWrapf_NilPassthrough(t *testing.T) {
	if Wrapf(nil, "context") != nil {
		t.Error("wrapping nil must stay nil")
	}
}

func TestWrap_ForeignErrorGetsInternalCode(t *testing.T) {
	wrapped := Wrap(errors.New("boom"), "reading table")
	if GetCode(wrapped) != CodeInternalError {
		t.Errorf("code = %s, want %s", GetCode(wrapped), CodeInternalError)
	}
}
