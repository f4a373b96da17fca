// retro_host_test.go - Frontend interface binding tests

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"errors"
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
)

func TestCurrentHWRenderInterface_DetectsSilentSwap(t *testing.T) {
	first := newFakeHostInterface(nil)
	first.install(t)

	intf, ok := CurrentHWRenderInterface()
	if !ok || intf != first.intf {
		t.Fatal("expected the installed interface")
	}

	// Frontend swaps the table without a context reset; the next
	// resolution must pick up the new one and refresh the cache.
	second := newFakeHostInterface(nil)
	GetHWRenderInterface = func() (*HWRenderInterfaceVulkan, bool) {
		return second.intf, true
	}

	intf, ok = CurrentHWRenderInterface()
	if !ok || intf != second.intf {
		t.Fatal("swap not detected")
	}
	if hwVulkan != second.intf {
		t.Error("cache not refreshed after swap")
	}
}

func TestCurrentHWRenderInterface_ReportsAbsence(t *testing.T) {
	clearHostInterface(t)
	if _, ok := CurrentHWRenderInterface(); ok {
		t.Error("absent interface reported as present")
	}
}

func TestHostProcResolver_NilTolerance(t *testing.T) {
	if p := HostProcResolver(nil)("vkAnything"); p != nil {
		t.Error("nil interface resolved an entry point")
	}

	intf := &HWRenderInterfaceVulkan{}
	if p := HostProcResolver(intf)("vkAnything"); p != nil {
		t.Error("interface without a lookup callback resolved an entry point")
	}
}

func TestHostProcResolver_DelegatesLookups(t *testing.T) {
	marker := new(int64)
	var asked string
	intf := &HWRenderInterfaceVulkan{
		GetInstanceProcAddr: func(instance vk.Instance, name string) unsafe.Pointer {
			asked = name
			return unsafe.Pointer(marker)
		},
	}

	p := HostProcResolver(intf)("vkGetSemaphoreCounterValueKHR")
	if p != unsafe.Pointer(marker) {
		t.Error("lookup result not passed through")
	}
	if asked != "vkGetSemaphoreCounterValueKHR" {
		t.Errorf("asked for %q", asked)
	}
}

func TestVulkanResetContext_RequiresInterface(t *testing.T) {
	clearHostInterface(t)
	if err := VulkanResetContext(); err == nil {
		t.Error("reset succeeded without an interface")
	}
}

func TestVulkanResetContext_RunsDispatcherInit(t *testing.T) {
	host := newFakeHostInterface(nil)
	host.install(t)

	prevInit := vulkanDispatchInit
	called := false
	vulkanDispatchInit = func(intf *HWRenderInterfaceVulkan) error {
		called = true
		if intf != host.intf {
			return errors.New("wrong interface")
		}
		return nil
	}
	t.Cleanup(func() { vulkanDispatchInit = prevInit })

	if err := VulkanResetContext(); err != nil {
		t.Fatalf("VulkanResetContext: %v", err)
	}
	if !called {
		t.Error("dispatcher init not invoked")
	}
}

func TestPollInput_DefaultReportsNothing(t *testing.T) {
	if v := PollInput(0, RETRO_DEVICE_JOYPAD, 0, RETRO_DEVICE_ID_JOYPAD_A); v != 0 {
		t.Errorf("default poller returned %d", v)
	}
}
