package netapi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostwatch/lastseen/internal/domain/login"
	"github.com/hostwatch/lastseen/internal/netapi"
)

type fakeEnumerator struct {
	accounts []netapi.Account
	err      error
}

func (f *fakeEnumerator) Accounts() ([]netapi.Account, error) {
	return f.accounts, f.err
}

func TestReadAll_MapsAccounts(t *testing.T) {
	r := netapi.NewReader(&fakeEnumerator{accounts: []netapi.Account{
		{Name: "alice", UID: 1001, LastLogon: 1700000000},
		{Name: "bob", UID: 1002, LastLogon: 0},
	}})

	records, err := r.ReadAll("")
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "alice", records[0].Name)
	require.Equal(t, uint32(1001), *records[0].UID)
	require.Equal(t, "N/A", records[0].TTY)
	require.Equal(t, login.KindUserProcess, records[0].Kind)
	require.True(t, records[0].LastLogin.LoggedIn)

	require.False(t, records[1].LastLogin.LoggedIn)
}

func TestReadAll_EnumerationFailure(t *testing.T) {
	r := netapi.NewReader(&fakeEnumerator{err: errors.New("enumeration failed")})
	_, err := r.ReadAll("")
	require.Error(t, err)
}

func TestFindByName(t *testing.T) {
	r := netapi.NewReader(&fakeEnumerator{accounts: []netapi.Account{
		{Name: "alice", UID: 1001, LastLogon: 1700000000},
		{Name: "bob", UID: 1002, LastLogon: 1600000000},
	}})

	rec, err := r.FindByName("bob", "")
	require.NoError(t, err)
	require.Equal(t, int64(1600000000), rec.LastLogin.At.Unix())

	_, err = r.FindByName("mallory", "")
	require.ErrorIs(t, err, login.ErrUnknownUser)
}

func TestFindByUID(t *testing.T) {
	r := netapi.NewReader(&fakeEnumerator{accounts: []netapi.Account{
		{Name: "alice", UID: 1001, LastLogon: 1700000000},
	}})

	rec, err := r.FindByUID(1001, "")
	require.NoError(t, err)
	require.Equal(t, "alice", rec.Name)

	_, err = r.FindByUID(4242, "")
	require.ErrorIs(t, err, login.ErrUnknownUser)
}

func TestFind_DefaultUserSubstitution(t *testing.T) {
	// Every recorded login belongs to a placeholder account, so the
	// newest placeholder timestamp is pinned onto the searched account.
	r := netapi.NewReader(&fakeEnumerator{accounts: []netapi.Account{
		{Name: "alice", UID: 1001, LastLogon: 0},
		{Name: "defaultuser0", UID: 500, LastLogon: 1650000000},
		{Name: "defaultuser1", UID: 501, LastLogon: 1700000000},
	}})

	rec, err := r.FindByName("alice", "")
	require.NoError(t, err)
	require.True(t, rec.LastLogin.LoggedIn)
	require.Equal(t, int64(1700000000), rec.LastLogin.At.Unix())
}

func TestFind_NoSubstitutionWhenRealLoginExists(t *testing.T) {
	r := netapi.NewReader(&fakeEnumerator{accounts: []netapi.Account{
		{Name: "alice", UID: 1001, LastLogon: 1600000000},
		{Name: "defaultuser0", UID: 500, LastLogon: 1700000000},
	}})

	rec, err := r.FindByName("alice", "")
	require.NoError(t, err)
	require.Equal(t, int64(1600000000), rec.LastLogin.At.Unix())
}

func TestFind_NoSubstitutionWhenNobodyLoggedIn(t *testing.T) {
	r := netapi.NewReader(&fakeEnumerator{accounts: []netapi.Account{
		{Name: "alice", UID: 1001, LastLogon: 0},
		{Name: "defaultuser0", UID: 500, LastLogon: 0},
	}})

	rec, err := r.FindByName("alice", "")
	require.NoError(t, err)
	require.False(t, rec.LastLogin.LoggedIn)
}

func TestIsValidAndLocations(t *testing.T) {
	r := netapi.NewReader(&fakeEnumerator{})
	require.True(t, r.IsValid(nil))
	require.Equal(t, []string{""}, r.DefaultLocations())
}
