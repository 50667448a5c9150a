package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")

	require.Equal(t, NotFound, KindOf(New(NotFound, "trades.Create", "book not found")))
	require.Equal(t, Conflict, KindOf(fmt.Errorf("outer: %w", Wrap(Conflict, "op", "dup", cause))))
	require.Equal(t, Internal, KindOf(cause))
	require.Equal(t, Internal, KindOf(nil))
	require.False(t, Is(nil, Internal))
	require.True(t, Is(New(Forbidden, "op", "no"), Forbidden))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(Internal, "connections.Accept", "", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "connections.Accept: boom", err.Error())
	require.Equal(t, "internal error", MessageOf(err))
	require.Equal(t, "already connected", MessageOf(New(Conflict, "op", "already connected")))
}
