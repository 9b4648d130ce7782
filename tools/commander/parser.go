package commander

const (
	nul    = 0
	space  = ' '
	tab    = '\t'
	dquote = '"'
	slash  = '\\'
)

// Sentinel is the offset stored in the last argv slot.
const Sentinel = -1

// Unit is a code unit of a command line, a byte for narrow command lines
// and a UTF-16 unit for wide ones.
type Unit interface {
	~uint8 | ~uint16
}

// Options selects the optional features of the tokenizer.
type Options[T Unit] struct {
	// Wildcard prefixes every argument with its first unit as it appeared
	// before quote handling, so a later expansion step knows whether a
	// pattern was quoted.
	Wildcard bool
	// LeadUnit reports whether u is the first unit of a two-unit character.
	// Nil means every character is a single unit.
	LeadUnit func(u T) bool
}

func (o Options[T]) isLead(u T) bool {
	return o.LeadUnit != nil && o.LeadUnit(u)
}

// Sink receives the materialized output of Tokenize.
type Sink[T Unit] interface {
	// Arg marks the start of an argument at the current text position.
	Arg()
	// Put appends one unit of argument text.
	Put(u T)
	// Close appends the trailing sentinel slot.
	Close()
}

type scanner[T Unit] struct {
	raw      []T
	p        int
	sink     Sink[T]
	opts     Options[T]
	numArgs  int
	numChars int
}

// Tokenize splits raw into arguments and hands them to sink.
// raw has the form <progname><args>, a NUL unit or the end of the slice
// terminates it. numArgs includes the sentinel slot, numChars counts every
// unit passed to sink.Put. The counts never depend on the sink.
//
// Rules for arguments after the program name:
//
//	2N backslashes + "    -> N backslashes, begin/end quote
//	2N+1 backslashes + "  -> N backslashes, literal "
//	N backslashes         -> N backslashes
//	"" inside quotes      -> literal "
func Tokenize[T Unit](raw []T, sink Sink[T], opts Options[T]) (numArgs, numChars int) {
	s := &scanner[T]{raw: raw, sink: sink, opts: opts}
	s.name()
	for s.next() {
		s.arg()
	}
	s.sink.Close()
	s.numArgs++
	return s.numArgs, s.numChars
}

func (s *scanner[T]) at(i int) T {
	if i < len(s.raw) {
		return s.raw[i]
	}
	return nul
}

func (s *scanner[T]) emit(u T) {
	s.sink.Put(u)
	s.numChars++
}

func (s *scanner[T]) prefix() {
	if s.opts.Wildcard {
		s.emit(s.at(s.p))
	}
}

// name scans the program name. It must be a legal file name, so quotes are
// stripped and nothing else is interpreted.
func (s *scanner[T]) name() {
	s.sink.Arg()
	s.numArgs++
	s.prefix()
	inquote := false
	for {
		c := s.at(s.p)
		if c == dquote {
			inquote = !inquote
			s.p++
			continue
		}
		if c == nul {
			// the terminator of the source is copied, the position stays on it
			s.emit(nul)
			return
		}
		s.p++
		if !inquote && isBlank(c) {
			s.emit(nul)
			return
		}
		s.emit(c)
		if s.opts.isLead(c) {
			s.emit(s.at(s.p))
			s.p++
		}
	}
}

// next skips blanks and reports whether another argument follows.
func (s *scanner[T]) next() bool {
	for isBlank(s.at(s.p)) {
		s.p++
	}
	return s.at(s.p) != nul
}

func (s *scanner[T]) arg() {
	s.sink.Arg()
	s.numArgs++
	s.prefix()
	inquote := false
	for {
		copychar := true
		numslash := 0
		for s.at(s.p) == slash {
			s.p++
			numslash++
		}
		if s.at(s.p) == dquote {
			if numslash%2 == 0 {
				if inquote && s.at(s.p+1) == dquote {
					// "" inside a quoted region, the second one is copied
					s.p++
				} else {
					copychar = false
					inquote = !inquote
				}
			}
			numslash /= 2
		}
		for ; numslash > 0; numslash-- {
			s.emit(slash)
		}
		c := s.at(s.p)
		if c == nul || (!inquote && isBlank(c)) {
			break
		}
		if copychar {
			if s.opts.isLead(c) {
				s.emit(c)
				s.p++
				c = s.at(s.p)
			}
			s.emit(c)
		}
		s.p++
	}
	s.emit(nul)
}

func isBlank[T Unit](c T) bool {
	return c == space || c == tab
}
