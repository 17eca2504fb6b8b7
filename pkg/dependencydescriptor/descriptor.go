// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dependencydescriptor

// ParsedDescriptor is everything Parse derives from a single Dependency
// Descriptor extension payload, resolved against a SharedStructure: the
// caller doesn't need to touch template tables or bit offsets to make a
// forwarding decision per Decode Target.
type ParsedDescriptor struct {
	// FrameNumber is the truncated (wrapping) frame number carried on the
	// wire. See pkg/ddcache for an unwrapped, monotonic variant.
	FrameNumber TruncatedFrameNumber

	// SpatialId and TemporalId are the layer IDs of the current frame.
	SpatialId  SpatialId
	TemporalId TemporalId

	// Resolution is the current frame's spatial layer's max render
	// resolution, if the active SharedStructure carries resolutions.
	Resolution *Resolution

	// ReferredFrameNumberDiffs holds, for each frame this one depends on,
	// FrameNumber minus that frame's truncated frame number.
	ReferredFrameNumberDiffs []FrameNumberDiff

	// PreviousFrameNumberDiffByChainIndex holds, per Chain, FrameNumber
	// minus the truncated frame number of the previous frame in that
	// chain (0 if this frame starts the chain).
	PreviousFrameNumberDiffByChainIndex []FrameNumberDiff

	// FirstPacketOfFrame and LastPacketOfFrame are the start_of_frame and
	// end_of_frame mandatory bits: together they let a caller reassemble
	// which RTP packets belong to which frame without inspecting payload.
	FirstPacketOfFrame bool
	LastPacketOfFrame  bool

	// DecodeTargets has one entry per Decode Target of the (possibly just
	// updated) SharedStructure, in Decode Target index order.
	DecodeTargets []DecodeTarget

	// UpdatedSharedStructure is non-nil iff this payload carried a new
	// Frame Dependency Structure. Callers must cache it (keyed per SSRC,
	// reorder-aware -- see pkg/ddcache) and pass it back into subsequent
	// Parse calls.
	UpdatedSharedStructure *SharedStructure

	// UpdatedActiveDecodeTargetsBitmask is non-nil iff this payload
	// changed the active-decode-targets bitmask (either by carrying a new
	// SharedStructure, which resets it to all-ones, or by an explicit
	// custom bitmask). Callers must cache and replay it exactly like
	// UpdatedSharedStructure.
	UpdatedActiveDecodeTargetsBitmask *uint32
}
