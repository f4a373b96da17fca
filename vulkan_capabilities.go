// vulkan_capabilities.go - Capability probing for the frontend-owned device

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

// Tracked device extensions.
const (
	extTimelineSemaphore         = "VK_KHR_timeline_semaphore"
	extExtendedDynamicState      = "VK_EXT_extended_dynamic_state"
	extCustomBorderColor         = "VK_EXT_custom_border_color"
	extIndexTypeUint8            = "VK_EXT_index_type_uint8"
	extFragmentShaderInterlock   = "VK_EXT_fragment_shader_interlock"
	extFragmentShaderBarycentric = "VK_KHR_fragment_shader_barycentric"
	extShaderStencilExport       = "VK_EXT_shader_stencil_export"
	extExternalMemoryHost        = "VK_EXT_external_memory_host"
)

// Function pointers that must resolve before a claimed extension is
// believed. The frontend's device frequently enumerates extensions it
// never loaded entry points for.
var (
	extendedDynamicStateProcs = []string{
		"vkCmdSetCullModeEXT",
		"vkCmdSetDepthTestEnableEXT",
		"vkCmdSetDepthWriteEnableEXT",
		"vkCmdSetFrontFaceEXT",
	}
	timelineSemaphoreProcs = []string{
		"vkGetSemaphoreCounterValueKHR",
	}
)

// DeviceCapabilities is the probed capability record. Built once at
// instance construction and never mutated afterwards. Each flag is
// true only if the extension string was enumerated and every entry
// point the renderer will call resolved non-nil.
type DeviceCapabilities struct {
	TimelineSemaphores        bool
	ExtendedDynamicState      bool
	CustomBorderColor         bool
	IndexTypeUint8            bool
	FragmentShaderInterlock   bool
	FragmentShaderBarycentric bool
	ShaderStencilExport       bool
	ExternalMemoryHost        bool
	TriangleFanSupported      bool

	MinVertexStrideAlignment        uint64
	MinImportedHostPointerAlignment uint64

	DeviceName    string
	VendorID      uint32
	DeviceID      uint32
	DriverVersion uint32
	DriverID      DriverID
	DriverName    string
}

// ProbeDeviceCapabilities interrogates the foreign physical device.
// Probing never fails: every unanswerable question degrades the
// corresponding capability and logs, because the adapter must run on
// whatever device the frontend supplies.
func ProbeDeviceCapabilities(query DeviceQuery, resolve ProcResolver) DeviceCapabilities {
	caps := DeviceCapabilities{
		// No reliable query exists for triangle-fan topology; assume
		// supported until a draw proves otherwise.
		TriangleFanSupported:     true,
		MinVertexStrideAlignment: 1,
	}

	props, err := query.Properties()
	if err != nil {
		logWarn(tagVulkan, "device property query failed: %v", err)
	} else {
		caps.DeviceName = props.DeviceName
		caps.VendorID = props.VendorID
		caps.DeviceID = props.DeviceID
		caps.DriverVersion = props.DriverVersion
		if props.MinTexelBufferOffsetAlignment > 1 {
			caps.MinVertexStrideAlignment = props.MinTexelBufferOffsetAlignment
		}
	}

	available := make(map[string]bool)
	exts, err := query.Extensions()
	if err != nil {
		logWarn(tagVulkan, "extension enumeration failed, all optional features disabled: %v", err)
	}
	for _, name := range exts {
		available[name] = true
	}

	caps.TimelineSemaphores = available[extTimelineSemaphore]
	caps.ExtendedDynamicState = available[extExtendedDynamicState]
	caps.CustomBorderColor = available[extCustomBorderColor]
	caps.IndexTypeUint8 = available[extIndexTypeUint8]
	caps.FragmentShaderInterlock = available[extFragmentShaderInterlock]
	caps.FragmentShaderBarycentric = available[extFragmentShaderBarycentric]
	caps.ShaderStencilExport = available[extShaderStencilExport]
	caps.ExternalMemoryHost = available[extExternalMemoryHost]

	caps.DriverID, caps.DriverName = query.DriverInfo()

	// The Qualcomm proprietary driver enumerates the barycentric
	// extension but its shader translation cannot address per-vertex
	// inputs, so the flag is forced off there.
	if caps.DriverID == DriverIDQualcommProprietary && caps.FragmentShaderBarycentric {
		logWarn(tagVulkan, "disabling fragment shader barycentric on Qualcomm proprietary driver")
		caps.FragmentShaderBarycentric = false
	}

	if caps.ExtendedDynamicState && !procsResolve(resolve, extendedDynamicStateProcs) {
		logWarn(tagVulkan, "extended dynamic state entry points missing in frontend context, disabling")
		caps.ExtendedDynamicState = false
	}
	if caps.TimelineSemaphores && !procsResolve(resolve, timelineSemaphoreProcs) {
		logWarn(tagVulkan, "timeline semaphore entry points missing in frontend context, disabling")
		caps.TimelineSemaphores = false
	}
	if caps.TimelineSemaphores {
		enabled, ok := query.TimelineSemaphoreFeature()
		if !ok || !enabled {
			logWarn(tagVulkan, "timeline semaphore feature query negative, disabling")
			caps.TimelineSemaphores = false
		}
	}

	if caps.ExternalMemoryHost {
		align, ok := query.ExternalMemoryHostAlignment()
		if !ok || align == 0 {
			logWarn(tagVulkan, "external memory host properties unavailable, disabling")
			caps.ExternalMemoryHost = false
		} else {
			caps.MinImportedHostPointerAlignment = align
		}
	}

	return caps
}

func procsResolve(resolve ProcResolver, names []string) bool {
	if resolve == nil {
		return false
	}
	for _, name := range names {
		if resolve(name) == nil {
			return false
		}
	}
	return true
}
