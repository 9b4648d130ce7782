package commander

type discard[T Unit] struct{}

func (discard[T]) Arg() {}

func (discard[T]) Put(T) {}

func (discard[T]) Close() {}

// Buffer is a Sink writing into caller-provided storage. Either slice may be
// nil, in which case that part of the output is dropped. Non-nil slices must
// hold at least the counts reported by Count.
type Buffer[T Unit] struct {
	// Argv receives the text offset of every argument followed by Sentinel.
	Argv []int
	// Text receives the NUL-terminated argument text.
	Text []T

	argc int
	n    int
}

func (b *Buffer[T]) Arg() {
	if b.Argv != nil {
		b.Argv[b.argc] = b.n
	}
	b.argc++
}

func (b *Buffer[T]) Put(u T) {
	if b.Text != nil {
		b.Text[b.n] = u
	}
	b.n++
}

func (b *Buffer[T]) Close() {
	if b.Argv != nil {
		b.Argv[b.argc] = Sentinel
	}
	b.argc++
}
