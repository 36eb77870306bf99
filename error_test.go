package medscan_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/medscan"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := medscan.Errorf(medscan.ENOTFOUND, "no medicine for barcode %q", "6118000041856")

	assert.Equal(t, medscan.ENOTFOUND, medscan.ErrorCode(err))
	assert.Equal(t, "no medicine for barcode \"6118000041856\"", medscan.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, medscan.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, medscan.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("lookup: %w", medscan.Errorf(medscan.EUNAVAILABLE, "HTTP 503"))

	assert.Equal(t, medscan.EUNAVAILABLE, medscan.ErrorCode(err))
	assert.Equal(t, "HTTP 503", medscan.ErrorMessage(err))
}

func TestErrorCode_ForeignError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("boom")

	assert.Equal(t, medscan.EINTERNAL, medscan.ErrorCode(err))
	assert.Equal(t, "Internal error.", medscan.ErrorMessage(err))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, medscan.IsNotFound(medscan.Errorf(medscan.ENOTFOUND, "not a medicine page")))
	assert.False(t, medscan.IsNotFound(medscan.Errorf(medscan.EINVALID, "bad code")))
	assert.False(t, medscan.IsNotFound(nil))
}
