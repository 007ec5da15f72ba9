//go:build !console && (ebiten || !linux)

package backend

import (
	"hostwin/internal/platform"
	"hostwin/internal/platform/ebitenwin"
)

func New(ctx *platform.Context) platform.Backend { return ebitenwin.New(ctx) }
