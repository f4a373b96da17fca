// screen_layout.go - Touch-region rectangle and stereo-aware hit tests

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

// TargetRect is the touch-enabled sub-region of the output buffer,
// supplied per frame by the layout code. Read-only input to the
// pointer tracker.
type TargetRect struct {
	Left, Top, Right, Bottom int
}

func (r TargetRect) Width() int {
	return r.Right - r.Left
}

func (r TargetRect) Height() int {
	return r.Bottom - r.Top
}

func (r TargetRect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// mapPointerToBuffer rescales one absolute pointer axis (±0x7FFF with
// -0x7FFF at the left/top edge) into buffer pixels.
func mapPointerToBuffer(axis int16, bufferExtent int) int {
	return int(float64(int(axis)+RetroPointerMax) / float64(RetroPointerMax*2) * float64(bufferExtent))
}

// touchTestPoint folds a buffer-space pointer position back onto the
// layout the target rectangle was computed for. Side-by-side and
// cardboard stereo draw the full layout twice at half horizontal
// resolution, one copy per half, so a press in either half must be
// folded into its half and stretched back to layout coordinates
// before the rectangle test.
func touchTestPoint(x, y, bufferWidth int, mode StereoRenderMode) (int, int) {
	switch mode {
	case StereoSideBySide, StereoCardboard:
		half := bufferWidth / 2
		if half > 0 {
			if x >= half {
				x -= half
			}
			return x * 2, y
		}
	}
	return x, y
}
