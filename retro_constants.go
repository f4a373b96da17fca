// retro_constants.go - libretro input/device ABI constants

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

// libretro device classes. These values are a fixed external contract
// defined by libretro.h and must never change.
const (
	RETRO_DEVICE_NONE    = 0
	RETRO_DEVICE_JOYPAD  = 1
	RETRO_DEVICE_MOUSE   = 2
	RETRO_DEVICE_ANALOG  = 5
	RETRO_DEVICE_POINTER = 6
)

// Joypad button IDs
const (
	RETRO_DEVICE_ID_JOYPAD_B      = 0
	RETRO_DEVICE_ID_JOYPAD_Y      = 1
	RETRO_DEVICE_ID_JOYPAD_SELECT = 2
	RETRO_DEVICE_ID_JOYPAD_START  = 3
	RETRO_DEVICE_ID_JOYPAD_UP     = 4
	RETRO_DEVICE_ID_JOYPAD_DOWN   = 5
	RETRO_DEVICE_ID_JOYPAD_LEFT   = 6
	RETRO_DEVICE_ID_JOYPAD_RIGHT  = 7
	RETRO_DEVICE_ID_JOYPAD_A      = 8
	RETRO_DEVICE_ID_JOYPAD_X      = 9
	RETRO_DEVICE_ID_JOYPAD_L      = 10
	RETRO_DEVICE_ID_JOYPAD_R      = 11
	RETRO_DEVICE_ID_JOYPAD_L2     = 12
	RETRO_DEVICE_ID_JOYPAD_R2     = 13
	RETRO_DEVICE_ID_JOYPAD_L3     = 14
	RETRO_DEVICE_ID_JOYPAD_R3     = 15
)

// Mouse axis/button IDs
const (
	RETRO_DEVICE_ID_MOUSE_X    = 0
	RETRO_DEVICE_ID_MOUSE_Y    = 1
	RETRO_DEVICE_ID_MOUSE_LEFT = 2
)

// Absolute pointer IDs. Axes are reported in a signed fixed-point range
// where -0x7FFF is the left/top edge and +0x7FFF the right/bottom edge.
const (
	RETRO_DEVICE_ID_POINTER_X       = 0
	RETRO_DEVICE_ID_POINTER_Y       = 1
	RETRO_DEVICE_ID_POINTER_PRESSED = 2
)

// Analog stick index/axis IDs
const (
	RETRO_DEVICE_INDEX_ANALOG_LEFT  = 0
	RETRO_DEVICE_INDEX_ANALOG_RIGHT = 1
	RETRO_DEVICE_ID_ANALOG_X        = 0
	RETRO_DEVICE_ID_ANALOG_Y        = 1
)

// RetroPointerMax is the magnitude of the absolute pointer range.
const RetroPointerMax = 0x7FFF

// Hardware render interface identification, from libretro_vulkan.h.
const (
	RETRO_HW_RENDER_INTERFACE_VULKAN         = 0
	RETRO_HW_RENDER_INTERFACE_VULKAN_VERSION = 5
)
