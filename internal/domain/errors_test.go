package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(nil))
	assert.Equal(t, KindNotFound, KindOf(NotFoundErr("missing")))
	assert.Equal(t, KindParse, KindOf(fmt.Errorf("wrapping: %w", ParseErr("bad"))))
	assert.Equal(t, KindCancelled, KindOf(context.Canceled))
	assert.Equal(t, KindCancelled, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	var errs ValidationErrors
	errs = errs.Violation("1.2", "duration", "bad")
	assert.Equal(t, KindValidation, KindOf(errs))
}

func TestValidationErrors_CollectsAll(t *testing.T) {
	var errs ValidationErrors
	errs = errs.Violation("1", "name", "name is required")
	errs = errs.Violation("2", "duration", "invalid duration %q", "3 days")

	assert.Len(t, errs, 2)
	msg := errs.Error()
	assert.Contains(t, msg, "2 errors")
	assert.Contains(t, msg, "[task 1]")
	assert.Contains(t, msg, `"3 days"`)
}

func TestErrorString(t *testing.T) {
	e := &Error{Kind: KindValidation, Message: "oops", OutlineNumber: "1.2", Field: "duration"}
	assert.Equal(t, "validation_error [task 1.2] (duration): oops", e.Error())

	assert.True(t, IsNotFound(NotFoundErr("x")))
	assert.False(t, IsNotFound(ParseErr("x")))
}
