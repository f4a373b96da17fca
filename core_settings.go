// core_settings.go - Frontend-supplied core settings passthrough

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

// CStickFunction selects what the right analog stick drives.
type CStickFunction int

const (
	CStickBoth CStickFunction = iota
	CStickOnly
	CStickTouchscreen
	CStickToggle
)

// AnalogToggleState tracks which function the stick currently drives
// when CStickToggle is active.
type AnalogToggleState int

const (
	ToggledMain AnalogToggleState = iota
	ToggledAlternate
)

// StereoRenderMode mirrors the emulator's 3D output setting; it affects
// how the touch region is located inside the output buffer.
type StereoRenderMode int

const (
	StereoOff StereoRenderMode = iota
	StereoSideBySide
	StereoCardboard
)

// CoreSettings is the passthrough target for the frontend's core
// options. Option registration and parsing live in the libretro glue,
// outside this adapter; only the resulting values matter here.
type CoreSettings struct {
	FilePath string

	// Touchscreen input sources
	MouseTouchscreen   bool
	TouchTouchscreen   bool
	AnalogTouchEnabled bool
	RenderTouchscreen  bool

	// Analog cursor shaping
	Deadzone      float64
	ResponseCurve float64
	SpeedLevel    int // discrete 1..9

	// Unrecognized speed levels fall back to this multiplier. The
	// source history shipped both 1.0 and 0.8 here, so it stays an
	// explicit setting rather than a constant.
	DefaultSpeedMultiplier float64

	// Two-segment edge-boost curve. Zero disables it and selects the
	// plain power curve.
	EdgeBoostDeadzone float64
	PreBoostRatio     float64

	// Speed-up button
	SpeedupEnabled bool
	SpeedupRatio   float64

	// C-stick routing
	AnalogFunction CStickFunction
	AnalogToggle   AnalogToggleState

	// Layout
	SwapScreens bool
	StereoMode  StereoRenderMode

	// GLES requires a precision prologue on cursor shaders.
	UseGLES bool
}

// settings is the process-wide settings instance, written by the
// libretro glue whenever the frontend reparses core options.
var settings = DefaultCoreSettings()

// DefaultCoreSettings returns the shipped defaults.
func DefaultCoreSettings() CoreSettings {
	return CoreSettings{
		MouseTouchscreen:       true,
		TouchTouchscreen:       true,
		AnalogTouchEnabled:     false,
		RenderTouchscreen:      true,
		Deadzone:               0.1,
		ResponseCurve:          1.0,
		SpeedLevel:             5,
		DefaultSpeedMultiplier: 1.0,
		EdgeBoostDeadzone:      0.0,
		PreBoostRatio:          1.0,
		SpeedupEnabled:         false,
		SpeedupRatio:           2.0,
		AnalogFunction:         CStickBoth,
	}
}

// speedMultipliers maps the nine discrete cursor speed levels to their
// multipliers. Level 5 is neutral.
var speedMultipliers = map[int]float64{
	1: 0.4,
	2: 0.55,
	3: 0.7,
	4: 0.85,
	5: 1.0,
	6: 1.25,
	7: 1.5,
	8: 1.75,
	9: 2.0,
}

// SpeedMultiplier resolves the configured speed level, falling back to
// DefaultSpeedMultiplier for levels outside 1..9.
func (c *CoreSettings) SpeedMultiplier() float64 {
	if m, ok := speedMultipliers[c.SpeedLevel]; ok {
		return m
	}
	return c.DefaultSpeedMultiplier
}

// AnalogDrivesTouchscreen derives whether the right stick currently
// moves the touch cursor from the configured C-stick function. In
// toggle mode the alternate state is the touchscreen.
func (c *CoreSettings) AnalogDrivesTouchscreen() bool {
	switch c.AnalogFunction {
	case CStickBoth, CStickTouchscreen:
		return true
	case CStickToggle:
		return c.AnalogToggle == ToggledAlternate
	}
	return false
}

// UpdateAnalogTouch recomputes the cached AnalogTouchEnabled flag.
// Called by the option parser after any change to AnalogFunction and
// by ToggleAnalogFunction.
func (c *CoreSettings) UpdateAnalogTouch() {
	c.AnalogTouchEnabled = c.AnalogDrivesTouchscreen()
}

// ToggleAnalogFunction flips the stick between its two roles when
// CStickToggle is configured. No-op in the other modes.
func (c *CoreSettings) ToggleAnalogFunction() {
	if c.AnalogFunction != CStickToggle {
		return
	}
	if c.AnalogToggle == ToggledMain {
		c.AnalogToggle = ToggledAlternate
	} else {
		c.AnalogToggle = ToggledMain
	}
	c.UpdateAnalogTouch()
}
