package login

import (
	"fmt"
	"log/slog"
	"os"
)

// Resolver selects a working login database and answers latest-login
// queries against it. Readers are probed in construction order; on unix
// that is backward-scan log before indexed-slot.
type Resolver struct {
	readers  []Reader
	override string
	logger   *slog.Logger
}

// NewResolver creates a resolver over the given readers. override, when
// non-empty, names an explicit database path that must be usable;
// resolution never falls back to default locations once an override is
// set.
func NewResolver(readers []Reader, override string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{readers: readers, override: override, logger: logger}
}

// ResolveAll returns the latest-login record for every account the
// directory knows.
func (r *Resolver) ResolveAll() ([]Record, error) {
	reader, path, err := r.selectReader()
	if err != nil {
		return nil, err
	}
	return reader.ReadAll(path)
}

// ResolveUID returns the latest-login record for a single numeric id.
func (r *Resolver) ResolveUID(uid uint32) (Record, error) {
	reader, path, err := r.selectReader()
	if err != nil {
		return Record{}, err
	}
	return reader.FindByUID(uid, path)
}

// ResolveName returns the latest-login record for a single account name.
func (r *Resolver) ResolveName(name string) (Record, error) {
	reader, path, err := r.selectReader()
	if err != nil {
		return Record{}, err
	}
	return reader.FindByName(name, path)
}

// ResolveBootTime returns the most recent boot record. Formats without a
// boot concept fail with ErrNotFound.
func (r *Resolver) ResolveBootTime() (Record, error) {
	reader, path, err := r.selectReader()
	if err != nil {
		return Record{}, err
	}
	bt, ok := reader.(BootTimer)
	if !ok {
		return Record{}, fmt.Errorf("%s database has no boot records: %w", reader.Name(), ErrNotFound)
	}
	return bt.BootTime(path)
}

// Source describes the database this resolver currently selects, as
// "reader" or "reader:path".
func (r *Resolver) Source() (string, error) {
	reader, path, err := r.selectReader()
	if err != nil {
		return "", err
	}
	if path == "" {
		return reader.Name(), nil
	}
	return fmt.Sprintf("%s:%s", reader.Name(), path), nil
}

// selectReader picks the backend and path for this resolution. An
// explicit override that cannot be opened fails immediately; it is an
// opt-out of the default-location fallback.
func (r *Resolver) selectReader() (Reader, string, error) {
	if r.override != "" {
		f, err := os.Open(r.override)
		if err != nil {
			return nil, "", fmt.Errorf("open override %s: %w", r.override, ErrNoDatabase)
		}
		defer f.Close()
		for _, reader := range r.readers {
			if _, err := f.Seek(0, 0); err != nil {
				return nil, "", fmt.Errorf("seek override %s: %w", r.override, ErrNoDatabase)
			}
			if reader.IsValid(f) {
				r.logger.Debug("selected login database", "reader", reader.Name(), "path", r.override, "stage", "override")
				return reader, r.override, nil
			}
		}
		return nil, "", fmt.Errorf("override %s matches no known format: %w", r.override, ErrNoDatabase)
	}

	for _, reader := range r.readers {
		for _, loc := range reader.DefaultLocations() {
			if loc == "" {
				// File-less backend; always usable.
				r.logger.Debug("selected login database", "reader", reader.Name(), "stage", "default")
				return reader, loc, nil
			}
			info, err := os.Stat(loc)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			r.logger.Debug("selected login database", "reader", reader.Name(), "path", loc, "stage", "default")
			return reader, loc, nil
		}
	}
	return nil, "", ErrNoDatabase
}
