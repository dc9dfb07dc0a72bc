// Package netapi resolves last logins through a host account-enumeration
// facility instead of an on-disk database. The production enumerator
// wraps NetUserEnum on Windows; the reader itself is platform-agnostic.
package netapi

import (
	"fmt"
	"os"
	"strings"

	"github.com/hostwatch/lastseen/internal/domain/login"
)

// defaultUserPrefix names the placeholder accounts some hosts ship with.
const defaultUserPrefix = "defaultuser"

// Account is one enumerated host account. LastLogon is seconds since the
// epoch, zero meaning never.
type Account struct {
	Name      string
	UID       uint32
	LastLogon int64
}

// Enumerator lists every local account known to the host.
type Enumerator interface {
	Accounts() ([]Account, error)
}

// Reader implements login.Reader over an Enumerator.
type Reader struct {
	enum Enumerator
}

// NewReader creates a live-enumeration reader.
func NewReader(enum Enumerator) *Reader {
	return &Reader{enum: enum}
}

func (r *Reader) Name() string { return "netapi" }

// IsValid is unconditionally true: there is no file to sniff.
func (r *Reader) IsValid(_ *os.File) bool { return true }

// DefaultLocations returns a single empty sentinel path.
func (r *Reader) DefaultLocations() []string { return []string{""} }

// ReadAll returns one record per enumerated account.
func (r *Reader) ReadAll(_ string) ([]login.Record, error) {
	accounts, err := r.enum.Accounts()
	if err != nil {
		return nil, err
	}
	records := make([]login.Record, 0, len(accounts))
	for _, acct := range accounts {
		records = append(records, toRecord(acct))
	}
	return records, nil
}

// FindByUID resolves a single account by numeric id.
func (r *Reader) FindByUID(uid uint32, _ string) (login.Record, error) {
	records, err := r.ReadAll("")
	if err != nil {
		return login.Record{}, err
	}
	return r.find(records, func(rec login.Record) bool {
		return rec.UID != nil && *rec.UID == uid
	}, fmt.Sprintf("uid %d", uid))
}

// FindByName resolves a single account by name.
func (r *Reader) FindByName(name string, _ string) (login.Record, error) {
	records, err := r.ReadAll("")
	if err != nil {
		return login.Record{}, err
	}
	return r.find(records, func(rec login.Record) bool {
		return rec.Name == name
	}, fmt.Sprintf("user %q", name))
}

func (r *Reader) find(records []login.Record, match func(login.Record) bool, key string) (login.Record, error) {
	latest, substitute := latestDefaultLogin(records)
	for _, rec := range records {
		if !match(rec) {
			continue
		}
		if substitute {
			rec.LastLogin = latest
		}
		return rec, nil
	}
	return login.Record{}, fmt.Errorf("%s: %w", key, login.ErrUnknownUser)
}

// latestDefaultLogin detects a host quirk: machines configured with a
// local account that later attach a roaming account sometimes pin the
// real user's login to a defaultuserX placeholder. When every account
// with a recorded login matches that placeholder pattern, the newest such
// timestamp is the true last login and is substituted onto whichever
// account is being searched for.
func latestDefaultLogin(records []login.Record) (login.LoginTime, bool) {
	for _, rec := range records {
		if !rec.LastLogin.LoggedIn {
			continue
		}
		if !strings.HasPrefix(rec.Name, defaultUserPrefix) {
			return login.Never(), false
		}
	}
	latest := login.Never()
	found := false
	for _, rec := range records {
		if !strings.HasPrefix(rec.Name, defaultUserPrefix) || !rec.LastLogin.LoggedIn {
			continue
		}
		if rec.LastLogin.After(latest) {
			latest = rec.LastLogin
			found = true
		}
	}
	return latest, found
}

func toRecord(acct Account) login.Record {
	uid := acct.UID
	return login.Record{
		Kind:      login.KindUserProcess,
		UID:       &uid,
		Name:      acct.Name,
		TTY:       "N/A",
		LastLogin: login.FromUnix(acct.LastLogon),
	}
}
