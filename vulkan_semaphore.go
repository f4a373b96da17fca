// vulkan_semaphore.go - Host-paced submission gate

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"errors"
	"sync/atomic"

	vk "github.com/goki/vulkan"
)

// SubmissionGate replaces timeline-semaphore pacing when the frontend
// owns frame synchronization. The frontend's wait_sync_index already
// guarantees the GPU finished a slot's work before the slot is reused,
// so every submitted tick is considered complete the moment the queue
// accepts it. Ticks are monotonic and purely host-side.
type SubmissionGate struct {
	ops DeviceOps

	// gpuTick trails currentTick by at most the in-flight frame count.
	gpuTick     atomic.Uint64
	currentTick atomic.Uint64
}

// NewSubmissionGate builds a gate over the device-operation surface.
// Tick 0 is reserved as "nothing submitted"; the first frame signals 1.
func NewSubmissionGate(ops DeviceOps) *SubmissionGate {
	g := &SubmissionGate{ops: ops}
	g.currentTick.Store(1)
	return g
}

// CurrentTick returns the tick the next submission will signal.
func (g *SubmissionGate) CurrentTick() uint64 {
	return g.currentTick.Load()
}

// CompletedTick returns the highest tick known finished on the GPU.
func (g *SubmissionGate) CompletedTick() uint64 {
	return g.gpuTick.Load()
}

// NextTick reserves and returns a fresh tick value for submission.
func (g *SubmissionGate) NextTick() uint64 {
	return g.currentTick.Add(1) - 1
}

// Refresh is a no-op: completion state advances in SubmitWork, there is
// no device counter to poll.
func (g *SubmissionGate) Refresh() {}

// Wait marks the given tick complete without blocking. The frontend has
// already fenced the work externally; all that remains is advancing the
// counter so renderer-side waiters see it. The counter never moves
// backwards, concurrent callers with stale lower ticks lose the race
// and return.
func (g *SubmissionGate) Wait(tick uint64) {
	for {
		old := g.gpuTick.Load()
		if tick <= old {
			return
		}
		if g.gpuTick.CompareAndSwap(old, tick) {
			return
		}
	}
}

// SubmitWork ends the command buffer and submits it under the
// frontend's queue lock, then marks signalTick complete. Wait and
// signal semaphore parameters of the renderer's generic submission path
// are accepted and deliberately discarded: the frontend does not accept
// semaphores through set_image version 1 and paces the queue itself.
// Device loss is unrecoverable mid-frame and panics, matching how the
// renderer treats it on every other backend; any other failure is
// returned to the caller once the queue lock is released.
func (g *SubmissionGate) SubmitWork(cmdbuf vk.CommandBuffer, waitSem, signalSem vk.Semaphore, signalTick uint64) error {
	if err := g.ops.EndCommandBuffer(cmdbuf); err != nil {
		logError(tagVulkan, "end command buffer failed: %v", err)
		if errors.Is(err, errDeviceLost) {
			panic(err)
		}
		return err
	}

	intf, ok := CurrentHWRenderInterface()
	if ok && intf.LockQueue != nil {
		intf.LockQueue(intf.Handle)
	}
	var queue vk.Queue
	if ok {
		queue = intf.Queue
	}
	err := g.ops.Submit(queue, cmdbuf)
	if ok && intf.UnlockQueue != nil {
		intf.UnlockQueue(intf.Handle)
	}
	if err != nil {
		logError(tagVulkan, "queue submit failed: %v", err)
		if errors.Is(err, errDeviceLost) {
			panic(err)
		}
		return err
	}

	g.Wait(signalTick)
	return nil
}
