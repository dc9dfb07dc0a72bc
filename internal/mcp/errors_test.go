package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostwatch/lastseen/internal/domain/login"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("uid 42: %w", login.ErrUnknownUser), "UNKNOWN_USER"},
		{login.ErrNoDatabase, "NO_DATABASE"},
		{fmt.Errorf("kind tag 11 out of range: %w", login.ErrInvalidData), "INVALID_DATA"},
		{fmt.Errorf("no boot entry in log: %w", login.ErrNotFound), "NOT_FOUND"},
	}
	for _, tc := range cases {
		apiErr := MapError(tc.err)
		require.NotNil(t, apiErr, "error %v", tc.err)
		require.Equal(t, tc.code, apiErr.Code)
	}
}

func TestMapError_PassThrough(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("unrelated")))

	err := mapError(errors.New("unrelated"))
	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
}

func TestToRecordResponse(t *testing.T) {
	uid := uint32(1000)
	rec := login.Record{
		Kind:      login.KindUserProcess,
		UID:       &uid,
		Name:      "alice",
		TTY:       "pts/0",
		LastLogin: login.FromUnix(1700000000),
	}
	resp := toRecordResponse(rec)
	require.Equal(t, "user_process", resp.Kind)
	require.Equal(t, "alice", resp.Name)
	require.False(t, resp.NeverIn)
	require.NotEmpty(t, resp.LastLogin)

	never := toRecordResponse(login.NewNeverRecord(1001, "bob"))
	require.True(t, never.NeverIn)
	require.Empty(t, never.LastLogin)
}
