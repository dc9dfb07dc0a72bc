//go:build unix

// Package platform selects which login-database readers participate in
// resolution on the current OS and knows how to identify the invoking
// user. The resolver itself stays platform-agnostic.
package platform

import (
	"github.com/hostwatch/lastseen/internal/domain/login"
	"github.com/hostwatch/lastseen/internal/lastlog"
	"github.com/hostwatch/lastseen/internal/wtmp"
)

// Readers returns the unix readers in selector priority order: the
// append log first, the indexed-slot database second.
func Readers(dir login.Directory) []login.Reader {
	return []login.Reader{wtmp.NewReader(dir), lastlog.NewReader(dir)}
}

// ResolveSelf resolves the invoking user's latest login.
func ResolveSelf(res *login.Resolver, dir login.Directory) (login.Record, error) {
	return res.ResolveUID(login.GuessUID(dir))
}
