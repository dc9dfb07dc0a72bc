package login

import (
	"fmt"
	"time"
)

// Kind classifies a login-accounting entry. The tags mirror the on-disk
// utmp type field; lastlog slots and live enumeration only ever produce
// KindUserProcess.
type Kind int32

const (
	KindEmpty Kind = iota
	KindRunLevel
	KindBootTime
	KindNewTime
	KindOldTime
	KindInitProcess
	KindLoginProcess
	KindUserProcess
	KindDeadProcess
	KindAccounting
)

var kindNames = map[Kind]string{
	KindEmpty:        "empty",
	KindRunLevel:     "run_level",
	KindBootTime:     "boot_time",
	KindNewTime:      "new_time",
	KindOldTime:      "old_time",
	KindInitProcess:  "init_process",
	KindLoginProcess: "login_process",
	KindUserProcess:  "user_process",
	KindDeadProcess:  "dead_process",
	KindAccounting:   "accounting",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int32(k))
}

// KindFromTag validates a raw type tag against the closed kind set.
func KindFromTag(tag int32) (Kind, error) {
	if tag < int32(KindEmpty) || tag > int32(KindAccounting) {
		return KindEmpty, fmt.Errorf("kind tag %d out of range: %w", tag, ErrInvalidData)
	}
	return Kind(tag), nil
}

// LoginTime is either a concrete last-login moment or "never logged in".
type LoginTime struct {
	At       time.Time `json:"at,omitzero"`
	LoggedIn bool      `json:"logged_in"`
}

// Never is the zero LoginTime: the account has no recorded login.
func Never() LoginTime {
	return LoginTime{}
}

// FromUnix converts a raw seconds-since-epoch value. Zero is defined as
// "never logged in", not as the epoch itself.
func FromUnix(sec int64) LoginTime {
	if sec == 0 {
		return Never()
	}
	return LoginTime{At: time.Unix(sec, 0).UTC(), LoggedIn: true}
}

// After reports whether t is a strictly newer login observation than other.
// A never-login is older than any concrete time.
func (t LoginTime) After(other LoginTime) bool {
	if !t.LoggedIn {
		return false
	}
	if !other.LoggedIn {
		return true
	}
	return t.At.After(other.At)
}

// Record is the unified latest-login record every reader produces.
// UID is nil when a log entry references an identity the account
// directory does not know. TTY is empty or "N/A" for formats without a
// terminal field.
type Record struct {
	Kind      Kind      `json:"kind"`
	UID       *uint32   `json:"uid,omitempty"`
	Name      string    `json:"name"`
	TTY       string    `json:"tty,omitempty"`
	LastLogin LoginTime `json:"last_login"`
}

// NewNeverRecord synthesizes the record for an account with no log entry.
func NewNeverRecord(uid uint32, name string) Record {
	return Record{
		Kind:      KindUserProcess,
		UID:       &uid,
		Name:      name,
		LastLogin: Never(),
	}
}
