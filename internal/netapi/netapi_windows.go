//go:build windows

package netapi

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	userInfoLevel3      = 3
	filterNormalAccount = 2
	maxPreferredLength  = 0xFFFFFFFF
)

var (
	modNetapi32     = windows.NewLazySystemDLL("netapi32.dll")
	procNetUserEnum = modNetapi32.NewProc("NetUserEnum")
)

// userInfo3 mirrors the USER_INFO_3 layout returned by NetUserEnum.
type userInfo3 struct {
	Name            *uint16
	Password        *uint16
	PasswordAge     uint32
	Priv            uint32
	HomeDir         *uint16
	Comment         *uint16
	Flags           uint32
	ScriptPath      *uint16
	AuthFlags       uint32
	FullName        *uint16
	UsrComment      *uint16
	Parms           *uint16
	Workstations    *uint16
	LastLogon       uint32
	LastLogoff      uint32
	AcctExpires     uint32
	MaxStorage      uint32
	UnitsPerWeek    uint32
	LogonHours      *byte
	BadPwCount      uint32
	NumLogons       uint32
	LogonServer     *uint16
	CountryCode     uint32
	CodePage        uint32
	UserID          uint32
	PrimaryGroupID  uint32
	Profile         *uint16
	HomeDirDrive    *uint16
	PasswordExpired uint32
}

// SystemEnumerator lists local accounts through NetUserEnum.
type SystemEnumerator struct{}

// NewSystemEnumerator creates the production Windows enumerator.
func NewSystemEnumerator() *SystemEnumerator {
	return &SystemEnumerator{}
}

// Accounts enumerates every normal local account at USER_INFO_3 level.
func (e *SystemEnumerator) Accounts() ([]Account, error) {
	var (
		bufptr       *byte
		entriesRead  uint32
		totalEntries uint32
		resume       uint32
	)
	status, _, _ := procNetUserEnum.Call(
		0,
		userInfoLevel3,
		filterNormalAccount,
		uintptr(unsafe.Pointer(&bufptr)),
		maxPreferredLength,
		uintptr(unsafe.Pointer(&entriesRead)),
		uintptr(unsafe.Pointer(&totalEntries)),
		uintptr(unsafe.Pointer(&resume)),
	)
	if status != 0 {
		return nil, fmt.Errorf("NetUserEnum failed with status %d", status)
	}
	defer windows.NetApiBufferFree(bufptr)

	infos := unsafe.Slice((*userInfo3)(unsafe.Pointer(bufptr)), entriesRead)
	accounts := make([]Account, 0, entriesRead)
	for _, info := range infos {
		accounts = append(accounts, Account{
			Name:      windows.UTF16PtrToString(info.Name),
			UID:       info.UserID,
			LastLogon: int64(info.LastLogon),
		})
	}
	return accounts, nil
}
