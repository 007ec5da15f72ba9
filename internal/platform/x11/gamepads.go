//go:build linux && !console && !ebiten

package x11

import (
	"log/slog"

	"hostwin/internal/evdev"
	"hostwin/internal/input"
	"hostwin/internal/options"
	"hostwin/internal/platform"
)

// evdevDeviceBase offsets device ids so they never collide with ports
// claimed by other sources.
const evdevDeviceBase = 0x1000

type padDevice struct {
	pad  *evdev.Gamepad
	port int
}

// padSet feeds Linux joystick devices into the shared gamepad ports. The
// X protocol has no gamepad support of its own.
type padSet struct {
	ctx  *platform.Context
	log  *slog.Logger
	devs []padDevice
}

func (p *padSet) open(ctx *platform.Context, log *slog.Logger) {
	p.ctx, p.log = ctx, log
	paths := evdev.FindGamepads()
	if dev := ctx.Options.GetString(options.PadDevice, ""); dev != "" {
		paths = []string{dev}
	}
	for i, path := range paths {
		pad, err := evdev.OpenGamepad(path)
		if err != nil {
			log.Debug("skipping gamepad", "path", path, "error", err)
			continue
		}
		port, err := ctx.Pads.Connect(evdevDeviceBase+i, &input.StandardBindings)
		if err != nil {
			log.Warn("gamepad ignored", "name", pad.Name(), "error", err)
			pad.Close()
			break
		}
		p.devs = append(p.devs, padDevice{pad: pad, port: port})
		log.Info("gamepad connected", "name", pad.Name(), "port", port)
	}
}

func (p *padSet) poll(delta float64) {
	for i := 0; i < len(p.devs); {
		d := p.devs[i]
		snap, err := d.pad.Poll()
		if err != nil {
			p.log.Info("gamepad disconnected", "port", d.port, "error", err)
			p.ctx.Pads.Disconnect(d.port)
			d.pad.Close()
			p.devs = append(p.devs[:i], p.devs[i+1:]...)
			continue
		}
		snap.Apply(p.ctx.Pads, d.port, delta)
		i++
	}
}

func (p *padSet) close() {
	for _, d := range p.devs {
		p.ctx.Pads.Disconnect(d.port)
		d.pad.Close()
	}
	p.devs = nil
}

func (b *Backend) PollGamepads(delta float64) { b.pads.poll(delta) }
