// input_cursor_software.go - Raw framebuffer cursor backend

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

// cursorXORValue inverts all channels of an RGBA8888 pixel.
const cursorXORValue = 0xFFFFFFFF

// softwareCursor XORs the cross directly into a raw RGBA8888
// framebuffer. Used by the software rendering path where no GPU
// context exists.
type softwareCursor struct {
	buffer []uint32
	width  int
	height int
}

func newSoftwareCursor() *softwareCursor {
	return &softwareCursor{}
}

// AttachFramebuffer points the cursor at the frame's pixel buffer.
// Must be called each frame before Render; the buffer is stride-free,
// width*height pixels.
func (c *softwareCursor) AttachFramebuffer(buffer []uint32, width, height int) {
	c.buffer = buffer
	c.width = width
	c.height = height
}

func (c *softwareCursor) Render(state CursorState, bufferWidth, bufferHeight int) {
	if c.buffer == nil || c.width == 0 || c.height == 0 {
		return
	}
	vertical, horizontal := cursorCrossPixels(state)
	c.xorBar(vertical)
	c.xorBar(horizontal)
}

func (c *softwareCursor) xorBar(bar pixelBar) {
	if bar.empty() {
		return
	}
	for y := bar.Top; y < bar.Bottom; y++ {
		if y < 0 || y >= c.height {
			continue
		}
		row := y * c.width
		for x := bar.Left; x < bar.Right; x++ {
			if x < 0 || x >= c.width {
				continue
			}
			c.buffer[row+x] ^= cursorXORValue
		}
	}
}

func (c *softwareCursor) Destroy() {
	c.buffer = nil
}
