// Package commander splits command lines the way the Microsoft C runtime
// builds argv for a program's entry point, and composes command lines that
// split back into the same arguments.
package commander

import "unicode/utf16"

// Count runs the tokenizer without storing anything.
func Count[T Unit](raw []T, opts Options[T]) (numArgs, numChars int) {
	return Tokenize[T](raw, discard[T]{}, opts)
}

// Materialize runs the tokenizer into argv and text, both sized from a
// previous Count over the same raw. Either may be nil.
func Materialize[T Unit](raw []T, argv []int, text []T, opts Options[T]) (numArgs, numChars int) {
	return Tokenize[T](raw, &Buffer[T]{Argv: argv, Text: text}, opts)
}

// Args is a materialized argument vector.
type Args[T Unit] struct {
	// Argv holds the text offset of every argument, the last entry is Sentinel.
	Argv []int
	// Text holds every argument followed by a NUL unit.
	Text     []T
	Wildcard bool
}

// Parse tokenizes raw into exactly sized storage.
func Parse[T Unit](raw []T, opts Options[T]) *Args[T] {
	numArgs, numChars := Count(raw, opts)
	a := &Args[T]{
		Argv:     make([]int, numArgs),
		Text:     make([]T, numChars),
		Wildcard: opts.Wildcard,
	}
	Materialize(raw, a.Argv, a.Text, opts)
	return a
}

// Len returns the number of arguments, without the sentinel slot.
func (a *Args[T]) Len() int {
	return len(a.Argv) - 1
}

// At returns the text of argument i, without its wildcard prefix and terminator.
func (a *Args[T]) At(i int) []T {
	start := a.Argv[i]
	if a.Wildcard {
		start++
	}
	end := len(a.Text)
	if i+1 < a.Len() {
		end = a.Argv[i+1]
	}
	return a.Text[start : end-1]
}

// Prefix returns the raw first unit of argument i. It reports false when the
// arguments were parsed without the wildcard prefix.
func (a *Args[T]) Prefix(i int) (T, bool) {
	if !a.Wildcard {
		return 0, false
	}
	return a.Text[a.Argv[i]], true
}

// Split tokenizes a narrow command line.
func Split(cmdline string, opts Options[byte]) []string {
	a := Parse([]byte(cmdline), opts)
	args := make([]string, 0, a.Len())
	for i := 0; i < a.Len(); i++ {
		args = append(args, string(a.At(i)))
	}
	return args
}

// SplitUTF16 tokenizes cmdline as a wide command line.
func SplitUTF16(cmdline string, opts Options[uint16]) []string {
	a := Parse(utf16.Encode([]rune(cmdline)), opts)
	args := make([]string, 0, a.Len())
	for i := 0; i < a.Len(); i++ {
		args = append(args, string(utf16.Decode(a.At(i))))
	}
	return args
}
