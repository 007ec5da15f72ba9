// Package clipboard holds the selection buffers and the request/response
// rules shared by backends that negotiate text with other processes.
package clipboard

import (
	"encoding/binary"
	"time"
	"unicode/utf8"
)

// MaxLen bounds both copy and paste text, in runes.
const MaxLen = 256

const (
	WaitAttempts = 100
	WaitInterval = 10 * time.Millisecond
)

// Buffer is the process side of the clipboard. Paste text is only valid
// once Received reports true for the current request.
type Buffer struct {
	copyText  string
	pasteText string
	received  bool
	pending   bool
}

func truncate(s string) string {
	if !utf8.ValidString(s) {
		s = string([]rune(s))
	}
	if utf8.RuneCountInString(s) <= MaxLen {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxLen {
			return s[:i]
		}
		n++
	}
	return s
}

// SetCopy stores text to offer other processes.
func (b *Buffer) SetCopy(text string) { b.copyText = truncate(text) }

func (b *Buffer) Copy() string { return b.copyText }

// Begin starts a paste request and invalidates any previous paste text.
func (b *Buffer) Begin() {
	b.pending = true
	b.received = false
	b.pasteText = ""
}

// End closes the paste request. Later deliveries are dropped.
func (b *Buffer) End() { b.pending = false }

func (b *Buffer) Pending() bool { return b.pending }

// Deliver records a paste response. It returns false when no request is
// active, in which case the data is discarded.
func (b *Buffer) Deliver(data []byte) bool {
	if !b.pending {
		return false
	}
	b.pasteText = truncate(string(data))
	b.received = true
	return true
}

func (b *Buffer) Received() (string, bool) { return b.pasteText, b.received }

// Waiter performs the bounded cooperative wait for a paste response. The
// response can only arrive through pump, so the wait never blocks on I/O.
type Waiter struct {
	Attempts int
	Interval time.Duration
	Sleep    func(time.Duration)
}

func DefaultWaiter() Waiter {
	return Waiter{Attempts: WaitAttempts, Interval: WaitInterval, Sleep: time.Sleep}
}

// Await pumps events until b has received text or the attempts run out.
// A timeout yields an empty string and false.
func (w Waiter) Await(b *Buffer, pump func()) (string, bool) {
	defer b.End()
	sleep := w.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	for i := 0; i < w.Attempts; i++ {
		pump()
		if text, ok := b.Received(); ok {
			return text, true
		}
		sleep(w.Interval)
	}
	return "", false
}

// Atoms names the protocol identifiers a responder needs.
type Atoms struct {
	Clipboard uint32
	Targets   uint32
	UTF8      uint32
	Atom      uint32
}

// Request is a conversion request received from another client.
type Request struct {
	Selection uint32
	Target    uint32
	Property  uint32
}

// Response says what to write on the requestor. Property 0 is a refusal.
type Response struct {
	Property uint32
	Type     uint32
	Format   byte
	Data     []byte
}

// Answer decides the reply to a conversion request for our selection.
func (b *Buffer) Answer(req Request, atoms Atoms) Response {
	if req.Selection != atoms.Clipboard {
		return Response{}
	}
	prop := req.Property
	if prop == 0 {
		// obsolete clients leave the property unset
		prop = req.Target
	}
	switch {
	case req.Target == atoms.UTF8 && b.copyText != "":
		return Response{Property: prop, Type: atoms.UTF8, Format: 8, Data: []byte(b.copyText)}
	case req.Target == atoms.Targets:
		data := make([]byte, 8)
		binary.LittleEndian.PutUint32(data[0:], atoms.UTF8)
		binary.LittleEndian.PutUint32(data[4:], atoms.Targets)
		return Response{Property: prop, Type: atoms.Atom, Format: 32, Data: data}
	}
	return Response{}
}
