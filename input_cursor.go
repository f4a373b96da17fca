// input_cursor.go - Cursor renderer interface and shared cross geometry

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"golang.org/x/image/math/f32"
)

// GraphicsAPI selects the cursor rendering backend at tracker
// construction time.
type GraphicsAPI int

const (
	APISoftware GraphicsAPI = iota
	APIOpenGL
	APIVulkan
)

// CursorState is everything a backend needs to draw the cursor for one
// frame. Coordinates are full-buffer pixels.
type CursorState struct {
	ProjectedX  float64
	ProjectedY  float64
	RenderRatio float64
	Rect        TargetRect
}

// CursorRenderer draws the touch cursor. Implementations are not
// required to actually draw (the Vulkan one does not); they only must
// be safe to call every frame.
type CursorRenderer interface {
	Render(state CursorState, bufferWidth, bufferHeight int)
	Destroy()
}

// FramebufferTarget is implemented by renderers that draw into a
// caller-provided pixel buffer instead of a GPU context. The software
// rendering path hands the current frame's buffer over before each
// Render.
type FramebufferTarget interface {
	AttachFramebuffer(buffer []uint32, width, height int)
}

// NewCursorRenderer picks the backend for the active graphics API.
func NewCursorRenderer(api GraphicsAPI) (CursorRenderer, error) {
	switch api {
	case APIOpenGL:
		return newOpenGLCursor(settings.UseGLES)
	case APIVulkan:
		return newVulkanCursor(), nil
	default:
		return newSoftwareCursor(), nil
	}
}

// cursorBar is one clipped axis-aligned bar of the cross, in
// normalized device coordinates.
type cursorBar struct {
	Left, Right, Top, Bottom float32
}

// cursorCross is the full "+" shape: a tall narrow vertical bar and a
// wide flat horizontal bar, both clipped to the target rectangle.
type cursorCross struct {
	Vertical   cursorBar
	Horizontal cursorBar
}

// cursorCrossNDC computes the cross in NDC from a buffer-space cursor
// state. The vertical bar is a fifth of the cursor width and full
// height; the horizontal bar mirrors that. Both bars clip against the
// target rectangle so the cursor never spills onto the top screen.
func cursorCrossNDC(s CursorState, bufferWidth, bufferHeight int) cursorCross {
	centerX := float32(s.ProjectedX/float64(bufferWidth))*2 - 1
	centerY := float32(s.ProjectedY/float64(bufferHeight))*2 - 1

	renderWidth := float32(s.RenderRatio / float64(bufferWidth))
	renderHeight := float32(s.RenderRatio / float64(bufferHeight))

	boundLeft := float32(s.Rect.Left)/float32(bufferWidth)*2 - 1
	boundTop := float32(s.Rect.Top)/float32(bufferHeight)*2 - 1
	boundRight := float32(s.Rect.Right)/float32(bufferWidth)*2 - 1
	boundBottom := float32(s.Rect.Bottom)/float32(bufferHeight)*2 - 1

	return cursorCross{
		Vertical: cursorBar{
			Left:   max32(centerX-renderWidth/5, boundLeft),
			Right:  min32(centerX+renderWidth/5, boundRight),
			Top:    max32(centerY-renderHeight, boundTop),
			Bottom: min32(centerY+renderHeight, boundBottom),
		},
		Horizontal: cursorBar{
			Left:   max32(centerX-renderWidth, boundLeft),
			Right:  min32(centerX+renderWidth, boundRight),
			Top:    max32(centerY-renderHeight/5, boundTop),
			Bottom: min32(centerY+renderHeight/5, boundBottom),
		},
	}
}

// triangles expands a bar into two triangles (six vertices) with the Y
// axis flipped for OpenGL clip space.
func (b cursorBar) triangles() []f32.Vec2 {
	return []f32.Vec2{
		{b.Left, -b.Top},
		{b.Right, -b.Top},
		{b.Right, -b.Bottom},

		{b.Left, -b.Top},
		{b.Right, -b.Bottom},
		{b.Left, -b.Bottom},
	}
}

// vertexData flattens the cross into the interleaved position array
// the OpenGL backend uploads.
func (c cursorCross) vertexData() []float32 {
	verts := append(c.Vertical.triangles(), c.Horizontal.triangles()...)
	data := make([]float32, 0, len(verts)*2)
	for _, v := range verts {
		data = append(data, v[0], v[1])
	}
	return data
}

// pixelBar is a clipped bar in integer buffer pixels, half-open on the
// right and bottom.
type pixelBar struct {
	Left, Right, Top, Bottom int
}

func (b pixelBar) empty() bool {
	return b.Right <= b.Left || b.Bottom <= b.Top
}

// cursorCrossPixels computes the same cross in integer buffer pixels
// for the raw-framebuffer backend.
func cursorCrossPixels(s CursorState) (vertical, horizontal pixelBar) {
	cx := s.ProjectedX
	cy := s.ProjectedY
	r := s.RenderRatio

	vertical = pixelBar{
		Left:   clampInt(int(cx-r/5), s.Rect.Left, s.Rect.Right),
		Right:  clampInt(int(cx+r/5), s.Rect.Left, s.Rect.Right),
		Top:    clampInt(int(cy-r), s.Rect.Top, s.Rect.Bottom),
		Bottom: clampInt(int(cy+r), s.Rect.Top, s.Rect.Bottom),
	}
	horizontal = pixelBar{
		Left:   clampInt(int(cx-r), s.Rect.Left, s.Rect.Right),
		Right:  clampInt(int(cx+r), s.Rect.Left, s.Rect.Right),
		Top:    clampInt(int(cy-r/5), s.Rect.Top, s.Rect.Bottom),
		Bottom: clampInt(int(cy+r/5), s.Rect.Top, s.Rect.Bottom),
	}
	return vertical, horizontal
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
