package mcp

import (
	"time"

	"github.com/hostwatch/lastseen/internal/domain/login"
	"github.com/hostwatch/lastseen/internal/history"
)

type ResolveAllParams struct{}

type ResolveUserParams struct {
	Name string  `json:"name,omitempty" jsonschema:"account name to resolve"`
	UID  *uint32 `json:"uid,omitempty" jsonschema:"numeric account id to resolve"`
}

type BootTimeParams struct{}

type TakeSnapshotParams struct{}

type ListSnapshotsParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of snapshots to return"`
}

// RecordResponse is the wire shape of a resolved login record. LastLogin
// is RFC 3339 or empty when the account never logged in.
type RecordResponse struct {
	Kind      string  `json:"kind"`
	UID       *uint32 `json:"uid,omitempty"`
	Name      string  `json:"name"`
	TTY       string  `json:"tty,omitempty"`
	LastLogin string  `json:"last_login,omitempty"`
	NeverIn   bool    `json:"never_logged_in"`
}

type ResolveAllResult struct {
	Source  string           `json:"source"`
	Records []RecordResponse `json:"records"`
}

type SnapshotResult struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	TakenAt time.Time `json:"taken_at"`
	Records int       `json:"records"`
}

type ListSnapshotsResult struct {
	Snapshots []SnapshotResult `json:"snapshots"`
}

func toRecordResponse(rec login.Record) RecordResponse {
	resp := RecordResponse{
		Kind:    rec.Kind.String(),
		UID:     rec.UID,
		Name:    rec.Name,
		TTY:     rec.TTY,
		NeverIn: !rec.LastLogin.LoggedIn,
	}
	if rec.LastLogin.LoggedIn {
		resp.LastLogin = rec.LastLogin.At.Format(time.RFC3339)
	}
	return resp
}

func toSnapshotResult(snap history.Snapshot) SnapshotResult {
	return SnapshotResult{
		ID:      snap.ID,
		Source:  snap.Source,
		TakenAt: snap.TakenAt,
		Records: snap.Records,
	}
}
