package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusError(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrPageFetch, &StatusError{StatusCode: 404, URL: "http://example.com/"})

	require.ErrorIs(t, err, ErrPageFetch)
	require.ErrorIs(t, err, ErrBadStatus)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 404, se.StatusCode)
	require.Equal(t, "HTTP 404 for http://example.com/", se.Error())
}
