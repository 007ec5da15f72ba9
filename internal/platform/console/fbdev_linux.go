//go:build linux && console

package console

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"hostwin/internal/render"
)

const defaultFramebuffer = "/dev/fb0"

const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioGetFScreenInfo = 0x4602
	fbioPanDisplay     = 0x4606
)

type fbBitfield struct {
	Offset uint32
	Length uint32
	Msb    uint32
}

// fbVarScreenInfo mirrors struct fb_var_screeninfo.
type fbVarScreenInfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          fbBitfield
	Green        fbBitfield
	Blue         fbBitfield
	Transp       fbBitfield
	Nonstd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	Pixclock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HSyncLen     uint32
	VSyncLen     uint32
	Sync         uint32
	Vmode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// fbFixScreenInfo mirrors struct fb_fix_screeninfo.
type fbFixScreenInfo struct {
	ID           [16]byte
	SmemStart    uint64
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	_            uint16
	LineLength   uint32
	MmioStart    uint64
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// fbdev drives a Linux framebuffer device. When the driver allows a
// virtual height of twice the screen, the two halves are flipped with
// FBIOPAN_DISPLAY; otherwise drawing goes straight to the visible buffer.
type fbdev struct {
	file    *os.File
	mem     []byte
	vinfo   fbVarScreenInfo
	mode    VideoMode
	buffers int
}

func openFramebuffer(path string) (*fbdev, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w", err)
	}
	fb := &fbdev{file: f}
	if err := fb.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&fb.vinfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO: %w", err)
	}
	depth, err := fbDepth(&fb.vinfo)
	if err != nil {
		f.Close()
		return nil, err
	}

	fb.buffers = 1
	want := fb.vinfo
	want.YResVirtual = want.YRes * 2
	want.YOffset = 0
	if err := fb.ioctl(fbioPutVScreenInfo, unsafe.Pointer(&want)); err == nil {
		fb.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&fb.vinfo))
		if fb.vinfo.YResVirtual >= 2*fb.vinfo.YRes {
			fb.buffers = 2
		}
	}

	var finfo fbFixScreenInfo
	if err := fb.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&finfo)); err != nil {
		f.Close()
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO: %w", err)
	}

	size := int(finfo.LineLength*fb.vinfo.YRes) * fb.buffers
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil && fb.buffers > 1 {
		fb.buffers = 1
		size = int(finfo.LineLength * fb.vinfo.YRes)
		mem, err = unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap framebuffer: %w", err)
	}
	fb.mem = mem
	fb.mode = VideoMode{
		Width:  int(fb.vinfo.XRes),
		Height: int(fb.vinfo.YRes),
		Depth:  depth,
		Stride: int(finfo.LineLength),
	}
	return fb, nil
}

// fbDepth turns the pixel layout into the colour depth render understands.
func fbDepth(v *fbVarScreenInfo) (int, error) {
	switch v.BitsPerPixel {
	case 32:
		if v.Red.Length == 10 {
			return 30, nil
		}
		return 32, nil
	case 16:
		if v.Green.Length == 5 {
			return 15, nil
		}
		return 16, nil
	case 8:
		return 8, nil
	}
	return 0, fmt.Errorf("%d bits per pixel: %w", v.BitsPerPixel, render.ErrUnsupportedDepth)
}

func (fb *fbdev) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fb.file.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (fb *fbdev) Mode() VideoMode { return fb.mode }
func (fb *fbdev) Buffers() int    { return fb.buffers }

func (fb *fbdev) Buffer(index int) []byte {
	size := fb.mode.Stride * fb.mode.Height
	return fb.mem[index*size : (index+1)*size]
}

func (fb *fbdev) SubmitFlip(index int, frameID uint64) error {
	if fb.buffers < 2 {
		return nil
	}
	fb.vinfo.XOffset = 0
	fb.vinfo.YOffset = uint32(index * fb.mode.Height)
	if err := fb.ioctl(fbioPanDisplay, unsafe.Pointer(&fb.vinfo)); err != nil {
		return fmt.Errorf("pan to frame %d: %w", frameID, err)
	}
	return nil
}

func (fb *fbdev) Close() error {
	if fb.mem != nil {
		unix.Munmap(fb.mem)
		fb.mem = nil
	}
	return fb.file.Close()
}
