//go:build !console && (ebiten || !linux)

package ebitenwin

import (
	atotto "github.com/atotto/clipboard"
	"golang.design/x/clipboard"
)

// textClipboard is the system clipboard restricted to text.
type textClipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

type nativeClipboard struct{}

func (nativeClipboard) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (nativeClipboard) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// atottoClipboard shells out to the platform clipboard tools and serves
// hosts where the native one fails to initialize.
type atottoClipboard struct{}

func (atottoClipboard) ReadText() (string, error)   { return atotto.ReadAll() }
func (atottoClipboard) WriteText(text string) error { return atotto.WriteAll(text) }

func openClipboard() (textClipboard, error) {
	if err := clipboard.Init(); err != nil {
		return atottoClipboard{}, err
	}
	return nativeClipboard{}, nil
}
