// Package mocks provides testify mocks for the login domain interfaces.
package mocks

import (
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/hostwatch/lastseen/internal/domain/login"
)

// Reader is a mock for login.Reader.
type Reader struct {
	mock.Mock
}

func (m *Reader) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *Reader) IsValid(f *os.File) bool {
	args := m.Called(f)
	return args.Bool(0)
}

func (m *Reader) DefaultLocations() []string {
	args := m.Called()
	if locs, ok := args.Get(0).([]string); ok {
		return locs
	}
	return nil
}

func (m *Reader) ReadAll(path string) ([]login.Record, error) {
	args := m.Called(path)
	if records, ok := args.Get(0).([]login.Record); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Reader) FindByUID(uid uint32, path string) (login.Record, error) {
	args := m.Called(uid, path)
	return args.Get(0).(login.Record), args.Error(1)
}

func (m *Reader) FindByName(name string, path string) (login.Record, error) {
	args := m.Called(name, path)
	return args.Get(0).(login.Record), args.Error(1)
}

// BootReader is a mock for login.Reader plus the login.BootTimer
// capability.
type BootReader struct {
	Reader
}

func (m *BootReader) BootTime(path string) (login.Record, error) {
	args := m.Called(path)
	return args.Get(0).(login.Record), args.Error(1)
}

// Directory is a mock for login.Directory.
type Directory struct {
	mock.Mock
}

func (m *Directory) NamesByUID() (map[uint32]string, error) {
	args := m.Called()
	if names, ok := args.Get(0).(map[uint32]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Directory) UIDsByName() (map[string]uint32, error) {
	args := m.Called()
	if uids, ok := args.Get(0).(map[string]uint32); ok {
		return uids, args.Error(1)
	}
	return nil, args.Error(1)
}
