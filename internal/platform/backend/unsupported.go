//go:build console && !linux

package backend

// The console backend drives Linux framebuffer and input devices and has
// no implementation elsewhere. This reference fails the build with a
// readable name instead of a missing New.
var _ = consoleTagRequiresLinux
