package commander

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func highBitLead(u byte) bool {
	return u >= 0x80
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		want    []string
	}{
		{name: "name only", cmdline: "prog", want: []string{"prog"}},
		{name: "empty", cmdline: "", want: []string{""}},
		{name: "simple", cmdline: "a.exe a b c", want: []string{"a.exe", "a", "b", "c"}},
		{name: "blank runs", cmdline: "a.exe  \t a \t\t b   ", want: []string{"a.exe", "a", "b"}},
		{name: "lone backslashes", cmdline: `prog a\\\\b`, want: []string{"prog", `a\\\\b`}},
		{name: "quoted blank", cmdline: `prog "a b"`, want: []string{"prog", "a b"}},
		{name: "odd run before quote", cmdline: `prog a\"b`, want: []string{"prog", `a"b`}},
		{name: "three backslashes before quote", cmdline: `prog a\\\"b`, want: []string{"prog", `a\"b`}},
		{name: "even run before quote", cmdline: `prog a\\"b c"`, want: []string{"prog", `a\b c`}},
		{name: "doubled quote inside quotes", cmdline: `prog "a""b"`, want: []string{"prog", `a"b`}},
		{name: "doubled quote outside quotes", cmdline: `prog a""b`, want: []string{"prog", "ab"}},
		{name: "unterminated quote", cmdline: `prog "abc`, want: []string{"prog", "abc"}},
		{name: "unterminated quote keeps blanks", cmdline: `prog "a b   `, want: []string{"prog", "a b   "}},
		{name: "empty quoted", cmdline: `prog "" x`, want: []string{"prog", "", "x"}},
		{name: "quoted name", cmdline: `"prog name".exe arg1`, want: []string{"prog name.exe", "arg1"}},
		{name: "name keeps backslashes", cmdline: `c:\a\b\c\a.exe a "b c" d`, want: []string{`c:\a\b\c\a.exe`, "a", "b c", "d"}},
		{name: "name escaped quote is not an escape", cmdline: `\"c:\a\b c\a.exe\" a "b c" d`, want: []string{`\c:\a\b c\a.exe\`, "a", "b c", "d"}},
		{name: "name unbalanced quote", cmdline: `"c:\a\b c\a.exe a "b c" d`, want: []string{`c:\a\b c\a.exe a b`, "c d"}},
		{name: "name with many quotes", cmdline: `\"a     "\"b   \"c" \\\\\\"`, want: []string{`\a     \b   \c \\\\\\`}},
		{name: "name ends on tab", cmdline: "prog\targ", want: []string{"prog", "arg"}},
		{name: "nul ends the line", cmdline: "prog a\x00b c", want: []string{"prog", "a"}},
		{name: "nul after name", cmdline: "prog\x00a b", want: []string{"prog"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.cmdline, Options[byte]{}))
		})
	}
}

func TestTokenizeCounts(t *testing.T) {
	tests := []struct {
		name     string
		cmdline  string
		wildcard bool
		argv     []int
		text     string
	}{
		{name: "name terminated by nul", cmdline: "prog", argv: []int{0, Sentinel}, text: "prog\x00"},
		{name: "empty", cmdline: "", argv: []int{0, Sentinel}, text: "\x00"},
		{name: "arguments", cmdline: `prog a "b c"`, argv: []int{0, 5, 7, Sentinel}, text: "prog\x00a\x00b c\x00"},
		{
			name:     "wildcard prefix",
			cmdline:  `prog "*.txt" *.go`,
			wildcard: true,
			argv:     []int{0, 6, 13, Sentinel},
			text:     "pprog\x00\"*.txt\x00**.go\x00",
		},
		{
			name:     "wildcard prefix of quoted name",
			cmdline:  `"a b" c`,
			wildcard: true,
			argv:     []int{0, 5, Sentinel},
			text:     "\"a b\x00cc\x00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte(tt.cmdline)
			opts := Options[byte]{Wildcard: tt.wildcard}
			numArgs, numChars := Count(raw, opts)
			require.Equal(t, len(tt.argv), numArgs)
			require.Equal(t, len(tt.text), numChars)

			argv := make([]int, numArgs)
			text := make([]byte, numChars)
			gotArgs, gotChars := Materialize(raw, argv, text, opts)
			assert.Equal(t, numArgs, gotArgs)
			assert.Equal(t, numChars, gotChars)
			assert.Equal(t, tt.argv, argv)
			assert.Equal(t, tt.text, string(text))
		})
	}
}

func TestWildcardPrefix(t *testing.T) {
	a := Parse([]byte(`prog "*.txt" *.go`), Options[byte]{Wildcard: true})
	require.Equal(t, 3, a.Len())
	want := []struct {
		prefix byte
		arg    string
	}{
		{'p', "prog"},
		{'"', "*.txt"},
		{'*', "*.go"},
	}
	for i, w := range want {
		prefix, ok := a.Prefix(i)
		require.True(t, ok)
		assert.Equal(t, w.prefix, prefix)
		assert.Equal(t, w.arg, string(a.At(i)))
	}

	_, ok := Parse([]byte("prog"), Options[byte]{}).Prefix(0)
	assert.False(t, ok)
}

func TestLeadUnits(t *testing.T) {
	tests := []struct {
		name    string
		cmdline string
		lead    func(byte) bool
		want    []string
	}{
		{
			name:    "trail backslash is not an escape",
			cmdline: "prog \x95\x5c\"a b\"",
			lead:    highBitLead,
			want:    []string{"prog", "\x95\x5ca b"},
		},
		{
			name:    "without lead units the trail escapes the quote",
			cmdline: "prog \x95\x5c\"a b\"",
			want:    []string{"prog", "\x95\"a", "b"},
		},
		{
			name:    "trail quote in name is not a toggle",
			cmdline: "\x95\"x y",
			lead:    highBitLead,
			want:    []string{"\x95\"x", "y"},
		},
		{
			name:    "without lead units the name quote toggles",
			cmdline: "\x95\"x y",
			want:    []string{"\x95x y"},
		},
		{
			name:    "trail blank does not end an argument",
			cmdline: "prog \x95 b",
			lead:    highBitLead,
			want:    []string{"prog", "\x95 b"},
		},
		{
			name:    "trail quote after a backslash run",
			cmdline: "prog \\\\\x95\"",
			lead:    highBitLead,
			want:    []string{"prog", "\\\\\x95\""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.cmdline, Options[byte]{LeadUnit: tt.lead}))
		})
	}
}

func TestSplitUTF16(t *testing.T) {
	got := SplitUTF16(`"C:\Program Files\tool.exe" "héllo wörld" a\"b 𝄞`, Options[uint16]{})
	assert.Equal(t, []string{`C:\Program Files\tool.exe`, "héllo wörld", `a"b`, "𝄞"}, got)
}

func TestBufferOptionalSinks(t *testing.T) {
	raw := []byte(`prog a "b c"`)
	numArgs, numChars := Count(raw, Options[byte]{})

	argv := make([]int, numArgs)
	gotArgs, gotChars := Materialize(raw, argv, nil, Options[byte]{})
	assert.Equal(t, []int{0, 5, 7, Sentinel}, argv)
	assert.Equal(t, numArgs, gotArgs)
	assert.Equal(t, numChars, gotChars)

	text := make([]byte, numChars)
	gotArgs, gotChars = Materialize(raw, nil, text, Options[byte]{})
	assert.Equal(t, "prog\x00a\x00b c\x00", string(text))
	assert.Equal(t, numArgs, gotArgs)
	assert.Equal(t, numChars, gotChars)
}

func randomCommandLine(r *rand.Rand) []byte {
	alphabet := []byte{'a', 'b', ' ', '\t', '"', '"', '\\', '\\', 0x95, '*'}
	raw := make([]byte, r.Intn(40))
	for i := range raw {
		raw[i] = alphabet[r.Intn(len(alphabet))]
	}
	return raw
}

func checkAgreement(t *testing.T, raw []byte, opts Options[byte]) {
	t.Helper()
	numArgs, numChars := Count(raw, opts)
	againArgs, againChars := Count(raw, opts)
	require.Equal(t, numArgs, againArgs)
	require.Equal(t, numChars, againChars)
	require.GreaterOrEqual(t, numArgs, 2)

	b := &Buffer[byte]{Argv: make([]int, numArgs), Text: make([]byte, numChars)}
	gotArgs, gotChars := Tokenize[byte](raw, b, opts)
	require.Equal(t, numArgs, gotArgs, "raw %q", raw)
	require.Equal(t, numChars, gotChars, "raw %q", raw)
	require.Equal(t, Sentinel, b.Argv[numArgs-1])
	require.Equal(t, byte(0), b.Text[numChars-1])
}

func TestCountMaterializeAgree(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	optss := []Options[byte]{
		{},
		{Wildcard: true},
		{LeadUnit: highBitLead},
		{Wildcard: true, LeadUnit: highBitLead},
	}
	for i := 0; i < 2000; i++ {
		raw := randomCommandLine(r)
		for _, opts := range optss {
			checkAgreement(t, raw, opts)
		}
	}
}

func TestNoEmptyArgumentsFromBlanks(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	alphabet := []byte{'a', ' ', '\t', '\\'}
	for i := 0; i < 1000; i++ {
		raw := make([]byte, r.Intn(30))
		for j := range raw {
			raw[j] = alphabet[r.Intn(len(alphabet))]
		}
		args := Split("prog "+string(raw), Options[byte]{})
		for _, arg := range args[1:] {
			assert.NotEmpty(t, arg, "raw %q", raw)
		}
	}
}

func FuzzTokenize(f *testing.F) {
	f.Add([]byte(`prog "a b" c\"d`), false, false)
	f.Add([]byte(`"prog" "a""b" \\\"`), true, false)
	f.Add([]byte("prog \x95\x5c\"a b\""), false, true)
	f.Fuzz(func(t *testing.T, raw []byte, wildcard, mbcs bool) {
		opts := Options[byte]{Wildcard: wildcard}
		if mbcs {
			opts.LeadUnit = highBitLead
		}
		checkAgreement(t, raw, opts)
	})
}
