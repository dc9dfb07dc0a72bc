// Package passwd implements the account directory over /etc/passwd-format
// identity files.
package passwd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// DefaultPath is the standard identity source on unix hosts.
const DefaultPath = "/etc/passwd"

// Directory caches the name/uid mapping parsed from a passwd file. The
// cache populates on first use and is never invalidated for the life of
// the process; edits to the backing file after that are not observed.
type Directory struct {
	path string

	once   sync.Once
	byUID  map[uint32]string
	byName map[string]uint32
	err    error
}

// NewDirectory creates a directory over the given passwd file. An empty
// path means DefaultPath.
func NewDirectory(path string) *Directory {
	if path == "" {
		path = DefaultPath
	}
	return &Directory{path: path}
}

// NamesByUID returns the uid-to-name mapping.
func (d *Directory) NamesByUID() (map[uint32]string, error) {
	d.once.Do(d.load)
	return d.byUID, d.err
}

// UIDsByName returns the name-to-uid mapping.
func (d *Directory) UIDsByName() (map[string]uint32, error) {
	d.once.Do(d.load)
	return d.byName, d.err
}

func (d *Directory) load() {
	f, err := os.Open(d.path)
	if err != nil {
		d.err = fmt.Errorf("read identity source: %w", err)
		return
	}
	defer f.Close()

	d.byUID = make(map[uint32]string)
	d.byName = make(map[string]uint32)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		// name:password:uid:... — malformed lines are skipped, not fatal.
		fields := strings.SplitN(line, ":", 4)
		if len(fields) < 3 {
			continue
		}
		uid, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			continue
		}
		d.byUID[uint32(uid)] = fields[0]
		d.byName[fields[0]] = uint32(uid)
	}
	if err := scanner.Err(); err != nil {
		d.byUID, d.byName = nil, nil
		d.err = fmt.Errorf("read identity source: %w", err)
	}
}
