// retro_log.go - Leveled logging for the adapter

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"fmt"
	"os"
)

// LogLevel filters adapter log output. The frontend normally owns the
// log sink; this falls back to stderr when no callback is wired.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

var logLevel = LogInfo

// LogPrinter receives formatted log lines. Replaceable so the libretro
// glue can forward to the frontend's log callback.
var LogPrinter = func(level LogLevel, line string) {
	fmt.Fprintln(os.Stderr, line)
}

func logAt(level LogLevel, tag, format string, args ...interface{}) {
	if level < logLevel {
		return
	}
	prefix := [...]string{"DEBUG", "INFO", "WARN", "ERROR"}[level]
	LogPrinter(level, fmt.Sprintf("[%s] %s: %s", prefix, tag, fmt.Sprintf(format, args...)))
}

func logDebug(tag, format string, args ...interface{}) { logAt(LogDebug, tag, format, args...) }
func logInfo(tag, format string, args ...interface{})  { logAt(LogInfo, tag, format, args...) }
func logWarn(tag, format string, args ...interface{})  { logAt(LogWarn, tag, format, args...) }
func logError(tag, format string, args ...interface{}) { logAt(LogError, tag, format, args...) }

// SetLogLevel adjusts the minimum emitted level.
func SetLogLevel(level LogLevel) {
	logLevel = level
}

const (
	tagVulkan = "Render_Vulkan"
	tagInput  = "Input"
	tagHost   = "LibRetro"
)
