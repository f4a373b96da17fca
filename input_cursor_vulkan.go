// input_cursor_vulkan.go - Vulkan cursor backend (geometry only)

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

// vulkanCursor computes the cursor geometry but issues no draw. The
// Vulkan presentation path has no spare render pass slot for overlay
// geometry yet; touch input works fully, only the visual cursor is
// absent. The computed geometry is kept so a future draw pass and the
// tests can see what would be rendered.
type vulkanCursor struct {
	lastCross cursorCross
	haveCross bool
}

func newVulkanCursor() *vulkanCursor {
	logInfo(tagInput, "touch cursor rendering unavailable on Vulkan, input only")
	return &vulkanCursor{}
}

func (c *vulkanCursor) Render(state CursorState, bufferWidth, bufferHeight int) {
	c.lastCross = cursorCrossNDC(state, bufferWidth, bufferHeight)
	c.haveCross = true
}

func (c *vulkanCursor) Destroy() {
	c.haveCross = false
}
