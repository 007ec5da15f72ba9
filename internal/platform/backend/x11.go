//go:build linux && !console && !ebiten

package backend

import (
	"hostwin/internal/platform"
	"hostwin/internal/platform/x11"
)

func New(ctx *platform.Context) platform.Backend { return x11.New(ctx) }
