//go:build linux && !console && !ebiten

package x11

import (
	"github.com/jezek/xgb/xproto"

	"hostwin/internal/clipboard"
)

// maxSelectionLongs bounds how much of a paste is fetched, in 32-bit units.
const maxSelectionLongs = 1024

// ClipboardText asks the CLIPBOARD owner for UTF8_STRING and pumps events
// until it answers. A timeout yields an empty string, not an error.
func (b *Backend) ClipboardText() (string, error) {
	owner, err := b.d.SelectionOwner(b.atoms.clipboard)
	if err != nil {
		return "", err
	}
	if owner == xproto.WindowNone {
		return "", nil
	}
	if owner == b.win {
		return b.ctx.Clipboard.Copy(), nil
	}

	b.ctx.Clipboard.Begin()
	b.d.ConvertSelection(b.win, b.atoms.clipboard, b.atoms.utf8, b.atoms.selData)
	text, ok := b.waiter.Await(&b.ctx.Clipboard, func() { b.ProcessEvents(0) })
	if !ok {
		b.log.Debug("clipboard owner did not answer")
	}
	return text, nil
}

func (b *Backend) SetClipboardText(text string) error {
	b.ctx.Clipboard.SetCopy(text)
	b.d.SetSelectionOwner(b.win, b.atoms.clipboard)
	return nil
}

func (b *Backend) handleSelectionNotify(e xproto.SelectionNotifyEvent) {
	if e.Selection != b.atoms.clipboard || e.Target != b.atoms.utf8 || e.Property != b.atoms.selData {
		return
	}
	reply, err := b.d.GetProperty(b.win, b.atoms.selData, xproto.AtomAny, maxSelectionLongs)
	b.d.DeleteProperty(b.win, b.atoms.selData)
	if err != nil {
		b.log.Debug("read selection", "error", err)
		return
	}
	if reply == nil || reply.ValueLen == 0 || reply.Type != b.atoms.utf8 {
		return
	}
	if !b.ctx.Clipboard.Deliver(reply.Value[:reply.ValueLen]) {
		b.log.Debug("dropped selection data outside a paste")
	}
}

func (b *Backend) handleSelectionRequest(e xproto.SelectionRequestEvent) {
	resp := b.ctx.Clipboard.Answer(clipboard.Request{
		Selection: uint32(e.Selection),
		Target:    uint32(e.Target),
		Property:  uint32(e.Property),
	}, b.atoms.selection())

	if resp.Property != 0 {
		b.d.ChangeProperty(e.Requestor, xproto.Atom(resp.Property), xproto.Atom(resp.Type), resp.Format, resp.Data)
	}
	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  xproto.Atom(resp.Property),
	}
	b.d.SendEvent(e.Requestor, true, 0, reply.Bytes())
}
