// vulkan_capabilities_test.go - Capability probe tests

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"errors"
	"testing"
)

func fullQuery() *fakeDeviceQuery {
	return &fakeDeviceQuery{
		props: DeviceProperties{
			DeviceName:                    "Test GPU",
			VendorID:                      vendorIDNvidia,
			DeviceID:                      0x1234,
			DriverVersion:                 0x400,
			MinTexelBufferOffsetAlignment: 16,
		},
		exts: []string{
			extTimelineSemaphore,
			extExtendedDynamicState,
			extCustomBorderColor,
			extIndexTypeUint8,
			extFragmentShaderInterlock,
			extFragmentShaderBarycentric,
			extShaderStencilExport,
			extExternalMemoryHost,
		},
		driverID:          DriverIDNvidiaProprietary,
		driverName:        "NVIDIA",
		hostAlign:         4096,
		hostAlignOK:       true,
		timelineFeature:   true,
		timelineFeatureOK: true,
	}
}

func TestProbe_AllCapabilitiesWithFullSupport(t *testing.T) {
	caps := ProbeDeviceCapabilities(fullQuery(), resolveAll)

	for name, flag := range map[string]bool{
		"timeline semaphores":    caps.TimelineSemaphores,
		"extended dynamic state": caps.ExtendedDynamicState,
		"custom border color":    caps.CustomBorderColor,
		"index type uint8":       caps.IndexTypeUint8,
		"interlock":              caps.FragmentShaderInterlock,
		"barycentric":            caps.FragmentShaderBarycentric,
		"stencil export":         caps.ShaderStencilExport,
		"external memory host":   caps.ExternalMemoryHost,
		"triangle fan":           caps.TriangleFanSupported,
	} {
		if !flag {
			t.Errorf("%s should be enabled", name)
		}
	}

	if caps.DeviceName != "Test GPU" {
		t.Errorf("device name = %q", caps.DeviceName)
	}
	if caps.MinVertexStrideAlignment != 16 {
		t.Errorf("stride alignment = %d, want 16", caps.MinVertexStrideAlignment)
	}
	if caps.MinImportedHostPointerAlignment != 4096 {
		t.Errorf("host pointer alignment = %d, want 4096", caps.MinImportedHostPointerAlignment)
	}
}

func TestProbe_FlagRequiresExtensionAndProcs(t *testing.T) {
	// Extension enumerated but entry points missing: flag must clear.
	q := fullQuery()
	caps := ProbeDeviceCapabilities(q, resolveExcept("vkCmdSetCullModeEXT"))
	if caps.ExtendedDynamicState {
		t.Error("extended dynamic state enabled despite missing entry point")
	}
	if !caps.CustomBorderColor {
		t.Error("unrelated capability lost")
	}

	// Entry points present but extension absent: flag must clear.
	q = fullQuery()
	q.exts = []string{extCustomBorderColor}
	caps = ProbeDeviceCapabilities(q, resolveAll)
	if caps.ExtendedDynamicState || caps.TimelineSemaphores {
		t.Error("capability enabled without its extension")
	}
	if !caps.CustomBorderColor {
		t.Error("enumerated capability missing")
	}
}

func TestProbe_NilResolverDisablesProcGatedCaps(t *testing.T) {
	caps := ProbeDeviceCapabilities(fullQuery(), nil)
	if caps.ExtendedDynamicState || caps.TimelineSemaphores {
		t.Error("proc-gated capability enabled without a resolver")
	}
	if !caps.ShaderStencilExport {
		t.Error("extension-only capability should survive a nil resolver")
	}
}

func TestProbe_TimelineFeatureQueryNegative(t *testing.T) {
	q := fullQuery()
	q.timelineFeature = false
	caps := ProbeDeviceCapabilities(q, resolveAll)
	if caps.TimelineSemaphores {
		t.Error("timeline semaphores enabled despite negative feature query")
	}

	q = fullQuery()
	q.timelineFeatureOK = false
	caps = ProbeDeviceCapabilities(q, resolveAll)
	if caps.TimelineSemaphores {
		t.Error("timeline semaphores enabled despite unanswerable feature query")
	}
}

func TestProbe_QualcommBarycentricWorkaround(t *testing.T) {
	q := fullQuery()
	q.driverID = DriverIDQualcommProprietary
	q.driverName = "Qualcomm"
	caps := ProbeDeviceCapabilities(q, resolveAll)
	if caps.FragmentShaderBarycentric {
		t.Error("barycentric must stay off on the Qualcomm proprietary driver")
	}
	if !caps.FragmentShaderInterlock {
		t.Error("workaround must not touch other capabilities")
	}
}

func TestProbe_ExternalMemoryHostDegrades(t *testing.T) {
	q := fullQuery()
	q.hostAlignOK = false
	caps := ProbeDeviceCapabilities(q, resolveAll)
	if caps.ExternalMemoryHost {
		t.Error("external memory host enabled without an alignment query")
	}

	q = fullQuery()
	q.hostAlign = 0
	caps = ProbeDeviceCapabilities(q, resolveAll)
	if caps.ExternalMemoryHost {
		t.Error("external memory host enabled with zero alignment")
	}
}

func TestProbe_SurvivesQueryFailures(t *testing.T) {
	q := fullQuery()
	q.propsErr = errors.New("no properties")
	q.extsErr = errors.New("no extensions")
	q.exts = nil

	caps := ProbeDeviceCapabilities(q, resolveAll)

	if caps.TimelineSemaphores || caps.ExtendedDynamicState || caps.ExternalMemoryHost {
		t.Error("capabilities enabled despite failed enumeration")
	}
	if !caps.TriangleFanSupported {
		t.Error("triangle fan default lost")
	}
	if caps.MinVertexStrideAlignment != 1 {
		t.Errorf("stride alignment = %d, want fallback 1", caps.MinVertexStrideAlignment)
	}
}

func TestProbe_StrideAlignmentFloorsAtOne(t *testing.T) {
	q := fullQuery()
	q.props.MinTexelBufferOffsetAlignment = 0
	caps := ProbeDeviceCapabilities(q, resolveAll)
	if caps.MinVertexStrideAlignment != 1 {
		t.Errorf("stride alignment = %d, want 1", caps.MinVertexStrideAlignment)
	}
}
