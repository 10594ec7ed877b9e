package render

import "image/color"

// fillThresholdRGBA lights every cell whose threshold is below level, which
// is what ordered dithering of a flat input of that level produces.
func fillThresholdRGBA(buf []byte, thresholds []uint8, level int, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, t := range thresholds {
		base := i * 4
		if int(t) < level {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// fillGrayRGBA writes the raw thresholds as opaque gray pixels.
func fillGrayRGBA(buf []byte, thresholds []uint8) {
	for i, t := range thresholds {
		base := i * 4
		buf[base+0] = t
		buf[base+1] = t
		buf[base+2] = t
		buf[base+3] = 0xff
	}
}

// Lit counts the cells fillThresholdRGBA would light at level.
func Lit(thresholds []uint8, level int) int {
	n := 0
	for _, t := range thresholds {
		if int(t) < level {
			n++
		}
	}
	return n
}
