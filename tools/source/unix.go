//go:build !windows

package source

import (
	"fmt"
	"os"

	"github.com/modern-devops/stdargv/tools/commander"
)

// CommandLine recomposes a command line from os.Args, the kernel only hands
// out the split vector.
func CommandLine() (string, error) {
	line, err := commander.Join(os.Args)
	if err != nil {
		return "", fmt.Errorf("failed to compose command line: %w", err)
	}
	return line, nil
}
