// input_tracker.go - Pointer/touch tracker fusing mouse, pointer and analog input

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"fmt"
	"math"
)

// PointerTracker fuses relative and absolute input sources into a
// single stylus position on the touch screen. Position is tracked in
// rectangle-local pixels; projected coordinates are full-buffer pixels
// for rendering and the touch-event consumer.
type PointerTracker struct {
	cfg  *CoreSettings
	poll InputPoller

	renderer CursorRenderer

	x, y float64

	lastMouseX int
	lastMouseY int

	projectedX  float64
	projectedY  float64
	renderRatio float64

	isPressed   bool
	initialized bool

	rect TargetRect
}

// NewPointerTracker builds a tracker with the cursor backend for the
// given graphics API. poll defaults to the process-wide input entry
// point when nil.
func NewPointerTracker(api GraphicsAPI, cfg *CoreSettings, poll InputPoller) (*PointerTracker, error) {
	if cfg == nil {
		cfg = &settings
	}
	if poll == nil {
		poll = PollInput
	}
	renderer, err := NewCursorRenderer(api)
	if err != nil {
		return nil, fmt.Errorf("pointer tracker: %w", err)
	}
	return &PointerTracker{
		cfg:      cfg,
		poll:     poll,
		renderer: renderer,
	}, nil
}

// OnMouseMove applies a relative movement to the tracked position.
func (t *PointerTracker) OnMouseMove(deltaX, deltaY float64) {
	t.x += deltaX
	t.y += deltaY
}

// Restrict clamps the tracked position to the given bounds.
func (t *PointerTracker) Restrict(minX, minY, maxX, maxY float64) {
	t.x = math.Min(math.Max(minX, t.x), maxX)
	t.y = math.Min(math.Max(minY, t.y), maxY)
}

// Update polls every enabled input source and recomputes the stylus
// position for this frame. bufferWidth/bufferHeight are the full
// output dimensions; rect is the touch-enabled sub-region.
func (t *PointerTracker) Update(bufferWidth, bufferHeight int, rect TargetRect) {
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return
	}
	if !t.initialized {
		// Absolute pointers report (0,0) when idle and that exact
		// position is skipped below, so start centered rather than in
		// the corner.
		t.x = float64(rect.Width()) / 2
		t.y = float64(rect.Height()) / 2
		t.initialized = true
	}

	state := false

	if t.cfg.MouseTouchscreen {
		state = state || t.poll(0, RETRO_DEVICE_MOUSE, 0, RETRO_DEVICE_ID_MOUSE_LEFT) != 0
		t.applyAbsolutePointer(bufferWidth, bufferHeight, rect)
	}

	if t.cfg.TouchTouchscreen {
		state = state || t.poll(0, RETRO_DEVICE_POINTER, 0, RETRO_DEVICE_ID_POINTER_PRESSED) != 0
		t.applyAbsolutePointer(bufferWidth, bufferHeight, rect)
	}

	if t.cfg.AnalogTouchEnabled {
		state = state || t.poll(0, RETRO_DEVICE_JOYPAD, 0, RETRO_DEVICE_ID_JOYPAD_R2) != 0
		t.applyAnalog(rect)
	}

	t.Restrict(0, 0, float64(rect.Width())-1, float64(rect.Height())-1)

	// Normalize to [0,1] against the rectangle, then re-map into
	// full-buffer space. The truncation matches the touch consumer,
	// which works in whole pixels.
	t.projectedX = float64(rect.Left) + float64(int(t.x))/float64(rect.Width())*float64(rect.Width())
	t.projectedY = float64(rect.Top) + float64(int(t.y))/float64(rect.Height())*float64(rect.Height())

	t.renderRatio = float64(rect.Height()) / 30

	t.isPressed = state
	t.rect = rect
}

// applyAbsolutePointer reads the frontend's absolute pointer and, when
// it moved and landed inside the touch region, snaps the tracked
// position there. An exactly-zero pair is the idle report and ignored.
func (t *PointerTracker) applyAbsolutePointer(bufferWidth, bufferHeight int, rect TargetRect) {
	pointerX := t.poll(0, RETRO_DEVICE_POINTER, 0, RETRO_DEVICE_ID_POINTER_X)
	pointerY := t.poll(0, RETRO_DEVICE_POINTER, 0, RETRO_DEVICE_ID_POINTER_Y)
	if pointerX == 0 && pointerY == 0 {
		return
	}

	newX := mapPointerToBuffer(pointerX, bufferWidth)
	newY := mapPointerToBuffer(pointerY, bufferHeight)
	if newX == t.lastMouseX && newY == t.lastMouseY {
		return
	}
	t.lastMouseX = newX
	t.lastMouseY = newY

	testX, testY := touchTestPoint(newX, newY, bufferWidth, t.cfg.StereoMode)
	if !rect.Contains(testX, testY) {
		return
	}

	t.x = float64(clampInt(testX, rect.Left, rect.Right) - rect.Left)
	t.y = float64(clampInt(testY, rect.Top, rect.Bottom) - rect.Top)
}

// applyAnalog converts the right stick into a relative cursor move.
func (t *PointerTracker) applyAnalog(rect TargetRect) {
	normX := float64(t.poll(0, RETRO_DEVICE_ANALOG, RETRO_DEVICE_INDEX_ANALOG_RIGHT, RETRO_DEVICE_ID_ANALOG_X)) / math.MaxInt16
	normY := float64(t.poll(0, RETRO_DEVICE_ANALOG, RETRO_DEVICE_INDEX_ANALOG_RIGHT, RETRO_DEVICE_ID_ANALOG_Y)) / math.MaxInt16

	scaledX, scaledY := t.shapeAnalog(normX, normY)

	// Both axes scale by the rectangle height so horizontal and
	// vertical stick speed feel identical on the non-square screen.
	speed := float64(rect.Height()) / 20 * t.cfg.SpeedMultiplier()
	if t.cfg.SpeedupEnabled && t.poll(0, RETRO_DEVICE_JOYPAD, 0, RETRO_DEVICE_ID_JOYPAD_R3) != 0 {
		speed *= t.cfg.SpeedupRatio
	}

	t.OnMouseMove(scaledX*speed, scaledY*speed)
}

// shapeAnalog applies the radial deadzone and the configured response
// curve, returning shaped per-axis values in [-1,1].
func (t *PointerTracker) shapeAnalog(normX, normY float64) (float64, float64) {
	absX := math.Abs(normX)
	absY := math.Abs(normY)
	radial := math.Min(1, math.Sqrt(absX*absX+absY*absY))
	deadzone := t.cfg.Deadzone
	if radial <= deadzone {
		return 0, 0
	}

	// Remap the post-deadzone band back onto [0,1] radially so there
	// is no jump at the deadzone edge.
	scaledLength := (radial - deadzone) / (1 - deadzone)
	scaleFactor := scaledLength / radial

	signX := math.Copysign(1, normX)
	signY := math.Copysign(1, normY)
	deflectX := absX * scaleFactor
	deflectY := absY * scaleFactor

	curve := t.cfg.ResponseCurve
	edge := t.cfg.EdgeBoostDeadzone
	if edge == 0 {
		return signX * math.Pow(math.Min(1, deflectX), curve),
			signY * math.Pow(math.Min(1, deflectY), curve)
	}

	// Two-segment edge-boost curve: below the edge threshold the
	// curve output caps at PreBoostRatio; past it a linear boost
	// blends up to full speed at the rim.
	deflectRadial := math.Min(1, math.Sqrt(deflectX*deflectX+deflectY*deflectY))
	scale := 1 / edge
	shapedX := math.Pow(math.Min(1, deflectX*scale), curve)
	shapedY := math.Pow(math.Min(1, deflectY*scale), curve)
	if deflectRadial >= edge {
		boost := t.cfg.PreBoostRatio + (1-t.cfg.PreBoostRatio)*((deflectRadial-edge)/(1-edge))
		return signX * shapedX * boost, signY * shapedY * boost
	}
	return signX * shapedX * t.cfg.PreBoostRatio, signY * shapedY * t.cfg.PreBoostRatio
}

// IsPressed reports whether the touch screen is currently pressed.
func (t *PointerTracker) IsPressed() bool {
	return t.isPressed
}

// GetPressedPosition returns the stylus position in full-buffer
// pixels.
func (t *PointerTracker) GetPressedPosition() (uint, uint) {
	return uint(t.projectedX), uint(t.projectedY)
}

// AttachFramebuffer hands the current frame's pixel buffer to the
// cursor backend. No-op for backends that draw through a GPU context.
func (t *PointerTracker) AttachFramebuffer(buffer []uint32, width, height int) {
	if target, ok := t.renderer.(FramebufferTarget); ok {
		target.AttachFramebuffer(buffer, width, height)
	}
}

// Render draws the cursor through the selected backend.
func (t *PointerTracker) Render(bufferWidth, bufferHeight int) {
	if !t.cfg.RenderTouchscreen {
		return
	}
	t.renderer.Render(CursorState{
		ProjectedX:  t.projectedX,
		ProjectedY:  t.projectedY,
		RenderRatio: t.renderRatio,
		Rect:        t.rect,
	}, bufferWidth, bufferHeight)
}

// Destroy releases the cursor backend.
func (t *PointerTracker) Destroy() {
	if t.renderer != nil {
		t.renderer.Destroy()
		t.renderer = nil
	}
}
