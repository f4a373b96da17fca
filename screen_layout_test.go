// screen_layout_test.go - Pointer mapping and stereo fold tests

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import "testing"

func TestMapPointerToBuffer_Endpoints(t *testing.T) {
	if got := mapPointerToBuffer(-RetroPointerMax, 320); got != 0 {
		t.Errorf("left edge = %d, want 0", got)
	}
	if got := mapPointerToBuffer(RetroPointerMax, 320); got != 320 {
		t.Errorf("right edge = %d, want 320", got)
	}
	// Raw zero lands just left of center from the floor.
	if got := mapPointerToBuffer(0, 320); got != 159 {
		t.Errorf("center = %d, want 159", got)
	}
}

func TestTargetRect_Dimensions(t *testing.T) {
	r := TargetRect{Left: 40, Top: 0, Right: 360, Bottom: 240}
	if r.Width() != 320 || r.Height() != 240 {
		t.Errorf("dimensions = %dx%d, want 320x240", r.Width(), r.Height())
	}
	if !r.Contains(40, 0) || !r.Contains(360, 240) {
		t.Error("boundary points must be inside")
	}
	if r.Contains(39, 0) || r.Contains(40, 241) {
		t.Error("outside points must not be inside")
	}
}

func TestTouchTestPoint_MonoIsIdentity(t *testing.T) {
	x, y := touchTestPoint(100, 50, 640, StereoOff)
	if x != 100 || y != 50 {
		t.Errorf("mono fold moved the point to (%d,%d)", x, y)
	}
}

func TestTouchTestPoint_SideBySideFoldsBothHalves(t *testing.T) {
	for _, mode := range []StereoRenderMode{StereoSideBySide, StereoCardboard} {
		// Left eye: point stretches back to layout width.
		x, y := touchTestPoint(100, 50, 640, mode)
		if x != 200 || y != 50 {
			t.Errorf("mode %d left half: (%d,%d), want (200,50)", mode, x, y)
		}

		// Right eye: same layout position, offset by half the buffer.
		x, y = touchTestPoint(420, 50, 640, mode)
		if x != 200 || y != 50 {
			t.Errorf("mode %d right half: (%d,%d), want (200,50)", mode, x, y)
		}
	}
}

func TestTouchTestPoint_DegenerateBufferWidth(t *testing.T) {
	x, y := touchTestPoint(3, 7, 0, StereoSideBySide)
	if x != 3 || y != 7 {
		t.Errorf("zero-width fold moved the point to (%d,%d)", x, y)
	}
}
