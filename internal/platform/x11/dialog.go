//go:build linux && !console && !ebiten

package x11

import (
	"hostwin/internal/platform"
	"hostwin/internal/platform/dialogs"
)

func (b *Backend) ShowDialog(title, msg string) {
	b.log.Info("dialog", "title", title, "message", msg)
	dialogs.Message(title, msg)
}

func (b *Backend) OpenFileDialog(args platform.FileDialogArgs) (string, error) {
	return dialogs.Open(args)
}

func (b *Backend) SaveFileDialog(args platform.FileDialogArgs) (string, error) {
	return dialogs.Save(args)
}
