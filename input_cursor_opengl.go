// input_cursor_opengl.go - OpenGL cursor backend

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

/*
#cgo windows LDFLAGS: -lopengl32
#cgo linux LDFLAGS: -lGL
#cgo darwin LDFLAGS: -framework OpenGL

#define GL_GLEXT_PROTOTYPES

#include <stdlib.h>
#include <string.h>

#ifdef __APPLE__
   #include <OpenGL/gl3.h>
#else
   #include <GL/gl.h>
   #include <GL/glext.h>
#endif

static GLuint cursor_prog = 0;
static GLuint cursor_vao = 0;
static GLuint cursor_vbo = 0;

static const char* precision_prologue = "precision mediump float;\n";

static const char* vertex_src =
    "in vec2 position;\n"
    "void main()\n"
    "{\n"
    "    gl_Position = vec4(position, 0.0, 1.0);\n"
    "}\n";

static const char* fragment_src =
    "out vec4 color;\n"
    "void main()\n"
    "{\n"
    "    color = vec4(1.0, 1.0, 1.0, 1.0);\n"
    "}\n";

static GLuint compile_stage(GLenum kind, const char* src, int use_gles) {
    const char* sources[2];
    int count = 0;
    if (use_gles) {
        sources[count++] = precision_prologue;
    }
    sources[count++] = src;

    GLuint shader = glCreateShader(kind);
    if (!shader) return 0;
    glShaderSource(shader, count, sources, NULL);
    glCompileShader(shader);

    GLint ok = GL_FALSE;
    glGetShaderiv(shader, GL_COMPILE_STATUS, &ok);
    if (ok != GL_TRUE) {
        glDeleteShader(shader);
        return 0;
    }
    return shader;
}

static int cursor_gl_init(int use_gles) {
    GLuint vs = compile_stage(GL_VERTEX_SHADER, vertex_src, use_gles);
    if (!vs) return -1;
    GLuint fs = compile_stage(GL_FRAGMENT_SHADER, fragment_src, use_gles);
    if (!fs) {
        glDeleteShader(vs);
        return -2;
    }

    cursor_prog = glCreateProgram();
    glAttachShader(cursor_prog, vs);
    glAttachShader(cursor_prog, fs);
    glLinkProgram(cursor_prog);
    glDeleteShader(vs);
    glDeleteShader(fs);

    GLint linked = GL_FALSE;
    glGetProgramiv(cursor_prog, GL_LINK_STATUS, &linked);
    if (linked != GL_TRUE) {
        glDeleteProgram(cursor_prog);
        cursor_prog = 0;
        return -3;
    }

    glGenVertexArrays(1, &cursor_vao);
    glGenBuffers(1, &cursor_vbo);
    glBindVertexArray(cursor_vao);
    glBindBuffer(GL_ARRAY_BUFFER, cursor_vbo);

    GLint position = glGetAttribLocation(cursor_prog, "position");
    glEnableVertexAttribArray((GLuint)position);
    glVertexAttribPointer((GLuint)position, 2, GL_FLOAT, GL_FALSE, 0, 0);

    glBindVertexArray(0);
    return 0;
}

static void cursor_gl_draw(const GLfloat* verts, int vertex_count) {
    if (!cursor_prog) return;

    glUseProgram(cursor_prog);
    glBindVertexArray(cursor_vao);

    glEnable(GL_BLEND);
    glBlendFunc(GL_ONE_MINUS_DST_COLOR, GL_ONE_MINUS_SRC_COLOR);

    glBindBuffer(GL_ARRAY_BUFFER, cursor_vbo);
    glBufferData(GL_ARRAY_BUFFER, vertex_count * 2 * sizeof(GLfloat),
                 verts, GL_STATIC_DRAW);

    glDrawArrays(GL_TRIANGLES, 0, vertex_count);

    glBindVertexArray(0);
    glUseProgram(0);
    glDisable(GL_BLEND);
}

static void cursor_gl_destroy(void) {
    if (cursor_vbo) { glDeleteBuffers(1, &cursor_vbo); cursor_vbo = 0; }
    if (cursor_vao) { glDeleteVertexArrays(1, &cursor_vao); cursor_vao = 0; }
    if (cursor_prog) { glDeleteProgram(cursor_prog); cursor_prog = 0; }
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// openglCursor draws the cross with a minimal solid-white shader pair
// and inverted-color blending so it stays visible on any background.
// Must be constructed and used on the thread holding the frontend's GL
// context.
type openglCursor struct{}

func newOpenGLCursor(useGLES bool) (*openglCursor, error) {
	gles := C.int(0)
	if useGLES {
		gles = 1
	}
	if rc := C.cursor_gl_init(gles); rc != 0 {
		return nil, fmt.Errorf("cursor shader setup failed (%d)", int(rc))
	}
	return &openglCursor{}, nil
}

func (c *openglCursor) Render(state CursorState, bufferWidth, bufferHeight int) {
	cross := cursorCrossNDC(state, bufferWidth, bufferHeight)
	data := cross.vertexData()
	C.cursor_gl_draw((*C.GLfloat)(unsafe.Pointer(&data[0])), C.int(len(data)/2))
}

func (c *openglCursor) Destroy() {
	C.cursor_gl_destroy()
}
