// Package lastlog reads the fixed-stride /var/log/lastlog database, where
// the slot for uid i lives at byte offset i * slotSize.
package lastlog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hostwatch/lastseen/internal/domain/login"
)

const (
	timeSize = 4
	ttySize  = 32
	hostSize = 256

	// slotSize is the packed on-disk stride: u32 seconds, then the
	// NUL-padded tty and host byte fields.
	slotSize = timeSize + ttySize + hostSize
)

// Reader implements login.Reader for the lastlog format.
type Reader struct {
	dir login.Directory
}

// NewReader creates a lastlog reader backed by the given account directory.
func NewReader(dir login.Directory) *Reader {
	return &Reader{dir: dir}
}

func (r *Reader) Name() string { return "lastlog" }

// DefaultLocations returns the well-known lastlog path.
func (r *Reader) DefaultLocations() []string {
	return []string{"/var/log/lastlog"}
}

// IsValid attempts to decode the slot for a best-effort current-user uid.
func (r *Reader) IsValid(f *os.File) bool {
	uid := login.GuessUID(r.dir)
	_, err := readSlot(f, "", uid)
	return err == nil
}

// FindByUID seeks directly to the uid's slot and decodes it. A uid whose
// slot lies past end-of-file has no record.
func (r *Reader) FindByUID(uid uint32, path string) (login.Record, error) {
	names, err := r.dir.NamesByUID()
	if err != nil {
		return login.Record{}, err
	}
	name, ok := names[uid]
	if !ok {
		return login.Record{}, fmt.Errorf("uid %d: %w", uid, login.ErrUnknownUser)
	}
	f, err := os.Open(path)
	if err != nil {
		return login.Record{}, fmt.Errorf("open lastlog: %w", err)
	}
	defer f.Close()
	return readSlot(f, name, uid)
}

// FindByName resolves the name through the account directory, then does
// the direct slot lookup.
func (r *Reader) FindByName(name string, path string) (login.Record, error) {
	uids, err := r.dir.UIDsByName()
	if err != nil {
		return login.Record{}, err
	}
	uid, ok := uids[name]
	if !ok {
		return login.Record{}, fmt.Errorf("user %q: %w", name, login.ErrUnknownUser)
	}
	f, err := os.Open(path)
	if err != nil {
		return login.Record{}, fmt.Errorf("open lastlog: %w", err)
	}
	defer f.Close()
	return readSlot(f, name, uid)
}

// ReadAll decodes the slot of every directory account, visiting uids in
// ascending order so the file is only ever read forward. Any failed slot
// read fails the whole call; the format guarantees a slot per uid, so a
// short file is corruption rather than a recoverable miss.
func (r *Reader) ReadAll(path string) ([]login.Record, error) {
	names, err := r.dir.NamesByUID()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lastlog: %w", err)
	}
	defer f.Close()

	records := make([]login.Record, 0, len(names))
	for _, uid := range slices.Sorted(maps.Keys(names)) {
		rec, err := readSlot(f, names[uid], uid)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// readSlot reads and decodes exactly one slot at uid * slotSize.
func readSlot(f io.ReaderAt, name string, uid uint32) (login.Record, error) {
	buf := make([]byte, slotSize)
	if _, err := f.ReadAt(buf, int64(uid)*slotSize); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return login.Record{}, fmt.Errorf("uid %d has no lastlog slot: %w", uid, login.ErrNotFound)
		}
		return login.Record{}, fmt.Errorf("read lastlog slot for uid %d: %w", uid, err)
	}

	sec := binary.NativeEndian.Uint32(buf[:timeSize])
	tty, err := decodeText("tty", buf[timeSize:timeSize+ttySize])
	if err != nil {
		return login.Record{}, err
	}
	// The host field is decoded for validity only; the unified record
	// does not expose it.
	if _, err := decodeText("host", buf[timeSize+ttySize:]); err != nil {
		return login.Record{}, err
	}

	return login.Record{
		Kind:      login.KindUserProcess,
		UID:       &uid,
		Name:      name,
		TTY:       tty,
		LastLogin: login.FromUnix(int64(sec)),
	}, nil
}

func decodeText(field string, raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s field is not valid text: %w", field, login.ErrInvalidData)
	}
	return strings.Trim(string(raw), "\x00"), nil
}
