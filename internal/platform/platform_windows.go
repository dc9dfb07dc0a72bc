//go:build windows

package platform

import (
	"fmt"
	"os/user"
	"strings"

	"github.com/hostwatch/lastseen/internal/domain/login"
	"github.com/hostwatch/lastseen/internal/netapi"
)

// Readers returns the single Windows reader: live account enumeration.
func Readers(_ login.Directory) []login.Reader {
	return []login.Reader{netapi.NewReader(netapi.NewSystemEnumerator())}
}

// ResolveSelf resolves the invoking user's latest login by name. The
// account name has any DOMAIN\ prefix stripped to match what the
// enumeration facility reports.
func ResolveSelf(res *login.Resolver, _ login.Directory) (login.Record, error) {
	current, err := user.Current()
	if err != nil {
		return login.Record{}, fmt.Errorf("current user: %w", err)
	}
	name := current.Username
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	return res.ResolveName(name)
}
