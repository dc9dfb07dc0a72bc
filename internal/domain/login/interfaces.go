package login

import "os"

// Reader is implemented by each login-database backend. A reader decodes
// one database format into unified Records; callers never branch on the
// concrete format.
type Reader interface {
	// Name identifies the backend for logging and diagnostics.
	Name() string
	// IsValid sniffs an already-open file and reports whether it looks
	// syntactically plausible for this format. It never fails hard on
	// malformed input.
	IsValid(f *os.File) bool
	// DefaultLocations returns the format's well-known paths in probe
	// order. File-less backends return a single empty sentinel path.
	DefaultLocations() []string
	// ReadAll resolves the latest login for every account the directory
	// knows.
	ReadAll(path string) ([]Record, error)
	// FindByUID resolves a single account by numeric id.
	FindByUID(uid uint32, path string) (Record, error)
	// FindByName resolves a single account by name.
	FindByName(name string, path string) (Record, error)
}

// BootTimer is the optional capability of formats that record boot events.
type BootTimer interface {
	BootTime(path string) (Record, error)
}

// Directory maps account names to numeric ids and back. Implementations
// own a populate-once cache with process lifetime; both accessors fail
// only when the backing identity source cannot be read at all.
type Directory interface {
	NamesByUID() (map[uint32]string, error)
	UIDsByName() (map[string]uint32, error)
}

// GuessUID returns a best-effort uid for the invoking user by resolving
// $USER through the directory. Zero on any miss.
func GuessUID(dir Directory) uint32 {
	user := os.Getenv("USER")
	if user == "" {
		return 0
	}
	names, err := dir.UIDsByName()
	if err != nil {
		return 0
	}
	return names[user]
}
