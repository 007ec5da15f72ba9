//go:build linux && console

package console

// VideoMode describes the scanout surface of a video output.
type VideoMode struct {
	Width  int
	Height int
	Depth  int
	Stride int // bytes between rows
}

// VideoOut is a set of display buffers the backend draws into and flips.
type VideoOut interface {
	Mode() VideoMode
	// Buffers is the number of buffers, 1 when flips cannot be queued.
	Buffers() int
	Buffer(index int) []byte
	// SubmitFlip makes buffer index visible. frameID increases by one for
	// every flip.
	SubmitFlip(index int, frameID uint64) error
	Close() error
}
