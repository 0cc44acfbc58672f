package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("append: %w", Storage("failed to save message", cause))

	assert.Equal(t, KindStorage, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, KindInternal, KindOf(cause))
	assert.Equal(t, Kind(""), KindOf(nil))

	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", NotFound("user not found"))))
	assert.False(t, IsNotFound(nil))
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, "آگهی یافت نشد", ReasonOf(NotFound("آگهی یافت نشد"), "fallback"))
	assert.Equal(t, "fallback", ReasonOf(errors.New("boom"), "fallback"))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthenticated:  http.StatusUnauthorized,
		KindValidation:       http.StatusBadRequest,
		KindNoCounterpartYet: http.StatusBadRequest,
		KindNotFound:         http.StatusNotFound,
		KindStorage:          http.StatusInternalServerError,
		KindInternal:         http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), kind)
	}
}
