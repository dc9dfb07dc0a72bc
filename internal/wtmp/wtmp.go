// Package wtmp reads utmp/wtmp append logs. Entries are fixed-size and
// appended in time order, so the newest observation for any identity is
// the first one met when scanning from end-of-file backward. Point
// lookups stop as soon as the matching identity has been merged, which
// bounds their cost to the distance from the end of the file to the most
// recent matching entry.
package wtmp

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hostwatch/lastseen/internal/domain/login"
)

// Packed on-disk entry layout. The type tag is a full i32 even though
// most documentation claims i16.
const (
	tagOffset  = 0
	lineOffset = 8
	lineSize   = 32
	userOffset = 44
	userSize   = 32
	hostOffset = 76
	hostSize   = 256
	secOffset  = 340

	entrySize = 384
)

// entry is one decoded log entry; auxiliary on-disk fields (pid, exit
// status, session, address) stay opaque.
type entry struct {
	kind login.Kind
	line string
	user string
	sec  int32
}

// Reader implements login.Reader for the utmp/wtmp format.
type Reader struct {
	dir login.Directory
}

// NewReader creates a utmp/wtmp reader backed by the given account
// directory.
func NewReader(dir login.Directory) *Reader {
	return &Reader{dir: dir}
}

func (r *Reader) Name() string { return "wtmp" }

// DefaultLocations returns the well-known utmp/wtmp paths in probe order.
func (r *Reader) DefaultLocations() []string {
	return []string{"/var/run/utmp", "/var/log/utmp", "/var/log/wtmp"}
}

// IsValid decodes exactly the trailing entry and reports whether it has a
// kind tag in range and a nonzero timestamp.
func (r *Reader) IsValid(f *os.File) bool {
	info, err := f.Stat()
	if err != nil || info.Size() < entrySize {
		return false
	}
	_, err = readEntryAt(f, info.Size()-entrySize)
	return err == nil
}

// ReadAll returns the latest login for every directory account, merging
// user-session entries latest-wins and synthesizing never-logged-in
// records for accounts the log never mentions.
func (r *Reader) ReadAll(path string) ([]login.Record, error) {
	merged, _, err := r.scan(path, nil)
	if err != nil {
		return nil, err
	}
	records := make([]login.Record, 0, len(merged))
	for _, rec := range merged {
		if rec.UID == nil {
			// Log identity unknown to the directory; not an account.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// FindByUID resolves a single account by numeric id. Several directory
// names may alias one uid, and the log entry can sit under any of them,
// so the merged records are searched by uid rather than by the canonical
// name.
func (r *Reader) FindByUID(uid uint32, path string) (login.Record, error) {
	names, err := r.dir.NamesByUID()
	if err != nil {
		return login.Record{}, err
	}
	if _, ok := names[uid]; !ok {
		return login.Record{}, fmt.Errorf("uid %d: %w", uid, login.ErrUnknownUser)
	}
	merged, _, err := r.scan(path, func(rec login.Record) bool {
		return rec.UID != nil && *rec.UID == uid
	})
	if err != nil {
		return login.Record{}, err
	}
	var best login.Record
	found := false
	for _, rec := range merged {
		if rec.UID == nil || *rec.UID != uid {
			continue
		}
		if !found || rec.LastLogin.After(best.LastLogin) {
			best = rec
			found = true
		}
	}
	if !found {
		return login.Record{}, fmt.Errorf("uid %d: %w", uid, login.ErrNotFound)
	}
	return best, nil
}

// FindByName resolves a single account by name.
func (r *Reader) FindByName(name string, path string) (login.Record, error) {
	uids, err := r.dir.UIDsByName()
	if err != nil {
		return login.Record{}, err
	}
	if _, ok := uids[name]; !ok {
		return login.Record{}, fmt.Errorf("user %q: %w", name, login.ErrUnknownUser)
	}
	merged, _, err := r.scan(path, func(rec login.Record) bool {
		return rec.Name == name
	})
	if err != nil {
		return login.Record{}, err
	}
	return merged[name], nil
}

// BootTime returns the most recent boot entry. The scan stops at the
// first boot entry met from the end, which is already the latest.
func (r *Reader) BootTime(path string) (login.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return login.Record{}, fmt.Errorf("open wtmp: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return login.Record{}, fmt.Errorf("stat wtmp: %w", err)
	}

	for offset := info.Size(); offset >= entrySize; {
		offset -= entrySize
		e, err := readEntryAt(f, offset)
		if err != nil {
			return login.Record{}, err
		}
		if e.kind == login.KindBootTime {
			return login.Record{
				Kind:      login.KindBootTime,
				Name:      e.user,
				TTY:       e.line,
				LastLogin: login.FromUnix(int64(e.sec)),
			}, nil
		}
	}
	return login.Record{}, fmt.Errorf("no boot entry in log: %w", login.ErrNotFound)
}

// scan walks the log backward, merging user-session entries into a
// latest-per-name map. stop, when non-nil, halts the walk once the
// just-merged record satisfies it. Accounts the log never mentions get a
// synthesized never-logged-in record. The returned count is the number of
// entries read.
func (r *Reader) scan(path string, stop func(login.Record) bool) (map[string]login.Record, int, error) {
	uids, err := r.dir.UIDsByName()
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wtmp: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat wtmp: %w", err)
	}

	merged := make(map[string]login.Record)
	reads := 0
	for offset := info.Size(); offset >= entrySize; {
		offset -= entrySize
		e, err := readEntryAt(f, offset)
		if err != nil {
			return nil, reads, err
		}
		reads++
		if e.kind != login.KindUserProcess {
			// Boot, run-level and process entries are meaningful but
			// carry no account login.
			continue
		}
		rec := toRecord(uids, e)
		setLatest(merged, rec)
		if stop != nil && stop(rec) {
			break
		}
	}

	for name, uid := range uids {
		if _, ok := merged[name]; !ok {
			merged[name] = login.NewNeverRecord(uid, name)
		}
	}
	return merged, reads, nil
}

// setLatest replaces the stored record only on a strictly newer
// timestamp. The backward walk already yields records newest-first, so
// this guards against out-of-order corruption rather than normal
// operation.
func setLatest(merged map[string]login.Record, rec login.Record) {
	if prev, ok := merged[rec.Name]; ok && !rec.LastLogin.After(prev.LastLogin) {
		return
	}
	merged[rec.Name] = rec
}

func toRecord(uids map[string]uint32, e entry) login.Record {
	var uid *uint32
	if id, ok := uids[e.user]; ok {
		uid = &id
	}
	return login.Record{
		Kind:      e.kind,
		UID:       uid,
		Name:      e.user,
		TTY:       e.line,
		LastLogin: login.FromUnix(int64(e.sec)),
	}
}

// readEntryAt reads and decodes exactly one entry at the given offset.
func readEntryAt(f *os.File, offset int64) (entry, error) {
	buf := make([]byte, entrySize)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return entry{}, fmt.Errorf("read log entry at %d: %w", offset, err)
	}
	return decodeEntry(buf)
}

// decodeEntry validates and decodes one raw entry. A kind tag outside the
// closed set or a zero timestamp marks the entry itself as garbage: a
// live log entry always carries the moment it was written.
func decodeEntry(buf []byte) (entry, error) {
	tag := int32(binary.NativeEndian.Uint32(buf[tagOffset : tagOffset+4]))
	kind, err := login.KindFromTag(tag)
	if err != nil {
		return entry{}, err
	}
	sec := int32(binary.NativeEndian.Uint32(buf[secOffset : secOffset+4]))
	if sec == 0 {
		return entry{}, fmt.Errorf("log entry has zero timestamp: %w", login.ErrInvalidData)
	}
	line, err := decodeText("tty", buf[lineOffset:lineOffset+lineSize])
	if err != nil {
		return entry{}, err
	}
	user, err := decodeText("username", buf[userOffset:userOffset+userSize])
	if err != nil {
		return entry{}, err
	}
	return entry{kind: kind, line: line, user: user, sec: sec}, nil
}

func decodeText(field string, raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%s field is not valid text: %w", field, login.ErrInvalidData)
	}
	return strings.Trim(string(raw), "\x00"), nil
}
