//go:build windows
// +build windows

package source

import (
	"golang.org/x/sys/windows"
)

// CommandLine returns the command line this process was created with.
func CommandLine() (string, error) {
	return windows.UTF16PtrToString(windows.GetCommandLine()), nil
}
