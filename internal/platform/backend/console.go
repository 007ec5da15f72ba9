//go:build linux && console

package backend

import (
	"hostwin/internal/platform"
	"hostwin/internal/platform/console"
)

func New(ctx *platform.Context) platform.Backend { return console.New(ctx) }
