//go:build linux

package evdev

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	iocRead    = 2
	iocNrShift = 0
	iocTyShift = 8
	iocSzShift = 16
	iocDirSh   = 30
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirSh | size<<iocSzShift | typ<<iocTyShift | nr<<iocNrShift
}

func eviocgname(n int) uintptr  { return ioc(iocRead, 'E', 0x06, uintptr(n)) }
func eviocgkey(n int) uintptr   { return ioc(iocRead, 'E', 0x18, uintptr(n)) }
func eviocgabs(abs int) uintptr { return ioc(iocRead, 'E', 0x40+uintptr(abs), unsafe.Sizeof(AbsInfo{})) }

// Device is an open /dev/input/event* node in non-blocking mode.
type Device struct {
	Path string
	name string
	fd   int
	buf  []byte
}

func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := &Device{Path: path, fd: fd, buf: make([]byte, EventSize*64)}
	var name [256]byte
	if err := d.ioctl(eviocgname(len(name)), unsafe.Pointer(&name[0])); err == nil {
		d.name = string(bytes.TrimRight(name[:], "\x00"))
	}
	return d, nil
}

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *Device) Name() string { return d.name }

func (d *Device) Close() error {
	if d.fd < 0 {
		return nil
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

// Keys returns the current state of every key and button.
func (d *Device) Keys() (KeySet, error) {
	var ks KeySet
	if err := d.ioctl(eviocgkey(len(ks)), unsafe.Pointer(&ks[0])); err != nil {
		return ks, fmt.Errorf("EVIOCGKEY: %w", err)
	}
	return ks, nil
}

func (d *Device) Abs(code int) (AbsInfo, error) {
	var info AbsInfo
	if err := d.ioctl(eviocgabs(code), unsafe.Pointer(&info)); err != nil {
		return info, fmt.Errorf("EVIOCGABS(%#x): %w", code, err)
	}
	return info, nil
}

// ReadEvents drains whatever is queued without blocking.
func (d *Device) ReadEvents(out []Event) ([]Event, error) {
	for {
		n, err := unix.Read(d.fd, d.buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				return out, nil
			}
			return out, fmt.Errorf("read %s: %w", d.Path, err)
		}
		if n <= 0 {
			return out, nil
		}
		out = DecodeEvents(d.buf[:n], out)
		if n < len(d.buf) {
			return out, nil
		}
	}
}

// FindGamepads lists joystick event nodes by stable id.
func FindGamepads() []string {
	paths, _ := filepath.Glob("/dev/input/by-id/*-event-joystick")
	return paths
}

func FindPointers() []string {
	paths, _ := filepath.Glob("/dev/input/by-id/*-event-mouse")
	return paths
}

func FindKeyboards() []string {
	paths, _ := filepath.Glob("/dev/input/by-id/*-event-kbd")
	return paths
}
