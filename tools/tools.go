package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/modern-devops/stdargv/tools/commander"
)

var ErrBadRange = errors.New("bad unit range")

func GitRootPath(wd string) string {
	cp := wd
	for {
		if _, err := os.Stat(filepath.Join(cp, ".git")); err == nil {
			return cp
		}
		lp := filepath.Join(cp, "..")
		if lp == cp {
			break
		}
		cp = lp
	}
	return wd
}

// DetectConfigFiles lists the candidate locations of a config file, the
// furthest first: home, git root, working directory.
func DetectConfigFiles(cf string) ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfs := []string{filepath.Join(home, cf)}
	if rp := GitRootPath(wd); wd != rp && rp != home {
		cfs = append(cfs, filepath.Join(rp, cf))
	}
	if wd != home {
		cfs = append(cfs, filepath.Join(wd, cf))
	}
	return cfs, nil
}

type unitRange struct {
	lo, hi uint64
}

// LeadUnits builds a lead unit predicate from a list of inclusive ranges.
// example: LeadUnits[byte]("0x81-0x9f,0xe0-0xfc") for code page 932
func LeadUnits[T commander.Unit](ranges string) (func(T) bool, error) {
	if strings.TrimSpace(ranges) == "" {
		return nil, nil
	}
	var top T
	top--
	var urs []unitRange
	for _, field := range strings.Split(ranges, ",") {
		lo, hi, found := strings.Cut(strings.TrimSpace(field), "-")
		if !found {
			hi = lo
		}
		l, err := strconv.ParseUint(strings.TrimSpace(lo), 0, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q, %v", ErrBadRange, field, err)
		}
		h, err := strconv.ParseUint(strings.TrimSpace(hi), 0, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q, %v", ErrBadRange, field, err)
		}
		if l > h || h > uint64(top) {
			return nil, fmt.Errorf("%w: %q", ErrBadRange, field)
		}
		urs = append(urs, unitRange{lo: l, hi: h})
	}
	return func(u T) bool {
		for _, ur := range urs {
			if uint64(u) >= ur.lo && uint64(u) <= ur.hi {
				return true
			}
		}
		return false
	}, nil
}
