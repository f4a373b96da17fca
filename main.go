// main.go - Standalone entry point for the retro3ds adapter

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
)

const adapterVersion = "0.1.0"

func boilerPlate() {
	fmt.Println("retro3ds - libretro rendering and input adapter for the Azahar 3DS core")
	fmt.Printf("Version %s\n", adapterVersion)
	fmt.Println("License: GPLv2 or later")
}

// main only exists for the standalone diagnostic build. In normal use
// the adapter is built with -buildmode=c-shared and driven entirely
// through the libretro entry points; main never runs there.
func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	boilerPlate()

	if *verbose {
		SetLogLevel(LogDebug)
	}

	if _, ok := GetHWRenderInterface(); !ok {
		fmt.Println("\nNo frontend Vulkan interface present.")
		fmt.Println("Load this module through a libretro frontend to use it.")
		os.Exit(0)
	}
}
