// Package backend picks the platform implementation compiled into the
// binary: the console build tag selects the framebuffer backend, the
// ebiten tag selects ebiten on Linux, other Linux builds use X11 and
// everything else runs on ebiten. The console tag is only valid on Linux.
package backend
