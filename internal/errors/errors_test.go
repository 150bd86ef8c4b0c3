package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCode(t *testing.T) {
	base := KeyNotFound("소계")
	wrapped := Wrap(base, "city total")

	assert.Equal(t, CodeKeyNotFound, GetCode(wrapped))
	assert.Equal(t, "city total: key not found: 소계", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, New(CodeKeyNotFound, "")))
	assert.False(t, stderrors.Is(wrapped, New(CodeParseError, "")))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "step 2: boom", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, WithCode(CodeParseError, nil))
}

func TestGetCodeThroughStdlibWrapping(t *testing.T) {
	err := fmt.Errorf("load: %w", FileNotFound("x.csv"))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeFileNotFound, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad selection"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "bad selection", err.Error())
}

func TestWithCodeRecodesAppError(t *testing.T) {
	err := WithCode(CodeConfigInvalid, SchemaMismatch("bad header"))
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "bad header", err.Error())

	wrapped := WithCode(CodeInvalidInput, fmt.Errorf("chart: %w", KeyNotFound("소계")))
	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.Equal(t, "chart: key not found: 소계", wrapped.Error())
}
