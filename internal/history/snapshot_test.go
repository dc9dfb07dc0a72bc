package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hostwatch/lastseen/internal/domain/login"
)

func sampleRecords() []login.Record {
	uid := uint32(1000)
	return []login.Record{
		{Kind: login.KindUserProcess, UID: &uid, Name: "alice", TTY: "pts/0", LastLogin: login.FromUnix(1700000000)},
		login.NewNeverRecord(1001, "bob"),
	}
}

func TestArchiver_ArchiveAndRecords(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	arch := NewArchiver(db)

	snap, err := arch.Archive(ctx, "wtmp:/var/log/wtmp", sampleRecords())
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)
	require.Equal(t, 2, snap.Records)

	records, err := arch.Records(ctx, snap.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ordered by name: alice then bob.
	require.Equal(t, "alice", records[0].Name)
	require.Equal(t, "pts/0", records[0].TTY)
	require.Equal(t, login.KindUserProcess, records[0].Kind)
	require.True(t, records[0].LastLogin.LoggedIn)
	require.Equal(t, int64(1700000000), records[0].LastLogin.At.Unix())

	require.Equal(t, "bob", records[1].Name)
	require.False(t, records[1].LastLogin.LoggedIn)
	require.NotNil(t, records[1].UID)
	require.Equal(t, uint32(1001), *records[1].UID)
}

func TestArchiver_DuplicateNamesAcrossUIDs(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	arch := NewArchiver(db)

	// A passwd file can carry one name on two uids; both records archive.
	a, b := uint32(0), uint32(1000)
	records := []login.Record{
		{Kind: login.KindUserProcess, UID: &a, Name: "admin", LastLogin: login.FromUnix(100)},
		{Kind: login.KindUserProcess, UID: &b, Name: "admin", LastLogin: login.FromUnix(200)},
	}

	snap, err := arch.Archive(ctx, "lastlog:/var/log/lastlog", records)
	require.NoError(t, err)
	require.Equal(t, 2, snap.Records)

	stored, err := arch.Records(ctx, snap.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
}

func TestArchiver_ListNewestFirst(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	arch := NewArchiver(db)

	first, err := arch.Archive(ctx, "lastlog:/var/log/lastlog", nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := arch.Archive(ctx, "wtmp:/var/log/wtmp", sampleRecords())
	require.NoError(t, err)

	snaps, err := arch.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	require.Equal(t, second.ID, snaps[0].ID)
	require.Equal(t, first.ID, snaps[1].ID)
	require.Equal(t, 2, snaps[0].Records)
	require.Equal(t, 0, snaps[1].Records)

	limited, err := arch.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestArchiver_Latest(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	arch := NewArchiver(db)

	_, err := arch.Latest(ctx)
	require.ErrorIs(t, err, ErrNoSnapshots)

	snap, err := arch.Archive(ctx, "wtmp:/var/log/wtmp", sampleRecords())
	require.NoError(t, err)

	latest, err := arch.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, snap.ID, latest.ID)
}
