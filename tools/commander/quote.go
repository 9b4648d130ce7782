package commander

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnquotable = errors.New("argument cannot be quoted")
	ErrEmptyArgs  = errors.New("empty args")
)

// Quote escapes arg so that it splits back into arg when it follows the
// program name on a command line.
// example: Quote(`a "b" c`) -> `"a \"b\" c"`
func Quote(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, "\"\\ \t") {
		return arg
	}
	hasBlank := strings.ContainsAny(arg, " \t")
	if !strings.ContainsAny(arg, "\"\\") {
		return `"` + arg + `"`
	}
	var b strings.Builder
	if hasBlank {
		b.WriteByte(dquote)
	}
	slashes := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		switch c {
		case slash:
			slashes++
		case dquote:
			// double the run so it stays literal, then escape the quote
			b.WriteString(strings.Repeat(`\`, slashes+1))
			slashes = 0
		default:
			slashes = 0
		}
		b.WriteByte(c)
	}
	if hasBlank {
		b.WriteString(strings.Repeat(`\`, slashes))
		b.WriteByte(dquote)
	}
	return b.String()
}

// QuoteName quotes a program name. Program names are only quote-stripped,
// so a name holding a double quote cannot be represented.
func QuoteName(name string) (string, error) {
	if strings.ContainsAny(name, "\"\x00") {
		return "", fmt.Errorf("program name %q: %w", name, ErrUnquotable)
	}
	if name == "" || strings.ContainsAny(name, " \t") {
		return `"` + name + `"`, nil
	}
	return name, nil
}

// Join composes a command line from a program name and its arguments.
// example: Join([]string{`C:\Program Files\a.exe`, "b c"}) -> `"C:\Program Files\a.exe" "b c"`
func Join(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrEmptyArgs
	}
	name, err := QuoteName(args[0])
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(args))
	parts = append(parts, name)
	for _, arg := range args[1:] {
		if strings.IndexByte(arg, nul) != -1 {
			return "", fmt.Errorf("argument %q: %w", arg, ErrUnquotable)
		}
		parts = append(parts, Quote(arg))
	}
	return strings.Join(parts, " "), nil
}
