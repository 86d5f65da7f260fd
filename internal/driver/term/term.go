// Package term renders the channel mask as a 1x8 color bar on the terminal.
// It is the fallback sink when no hardware is present.
package term

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"

	"github.com/example/ledchase/internal/driver"
	"github.com/example/ledchase/internal/pwm"
)

var (
	ledOn  = color.NRGBA{R: 255, G: 191, B: 0, A: 255} // amber
	ledOff = color.NRGBA{A: 255}
)

// Dev draws each written mask through the console screen device.
type Dev struct {
	drawer display.Drawer
	img    *image.NRGBA
}

func New() *Dev {
	return &Dev{
		drawer: screen.New(pwm.NumChannels),
		img:    image.NewNRGBA(image.Rect(0, 0, pwm.NumChannels, 1)),
	}
}

func (d *Dev) Write(word uint32) error {
	mask := driver.Mask(word)
	for i := 0; i < pwm.NumChannels; i++ {
		c := ledOff
		if mask&(1<<uint(i)) != 0 {
			c = ledOn
		}
		d.img.SetNRGBA(i, 0, c)
	}
	return d.drawer.Draw(d.drawer.Bounds(), d.img, image.Point{})
}

func (d *Dev) Close() error {
	return d.drawer.Halt()
}

var _ driver.Driver = &Dev{}
