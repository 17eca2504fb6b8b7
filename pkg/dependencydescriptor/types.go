// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package dependencydescriptor decodes the AV1 Dependency Descriptor RTP
// header extension (URI below), the compact bit-packed descriptor that
// tells a Selective Forwarding Middlebox how a video frame fits into a
// scalable coding structure: spatial/temporal layers, decode targets,
// dependency chains, and frame templates.
//
// Reference: https://aomediacodec.github.io/av1-rtp-spec/#dependency-descriptor-rtp-header-extension
// Reference: str0m rtp/dependency_descriptor.rs
package dependencydescriptor

// URI identifies the Dependency Descriptor RTP Header Extension.
const URI = "https://aomediacodec.github.io/av1-rtp-spec/#dependency-descriptor-rtp-header-extension"

// TruncatedFrameNumber identifies a video frame. Wraps on overflow, so
// callers that need a monotonic value must unwrap it themselves (see
// pkg/ddcache).
type TruncatedFrameNumber = uint16

// FrameNumberDiff is the difference between one frame number and another.
type FrameNumberDiff = uint16

// SpatialId identifies a spatial layer. Realistic range is 0..=3; the wire
// format doesn't otherwise bound it.
type SpatialId = uint8

// TemporalId identifies a temporal layer. Realistic range is 0..=3.
type TemporalId = uint8

// ChainIndex identifies a Chain. Range is 0..=31.
type ChainIndex = uint8

// Resolution is the maximum render width/height of a spatial layer.
type Resolution struct {
	// MaxRenderWidth is in range 1..=65536.
	MaxRenderWidth uint32
	// MaxRenderHeight is in range 1..=65536.
	MaxRenderHeight uint32
}

// DecodeTargetIndication describes a frame's relationship to a Decode
// Target.
//
// Reference: AV1 RTP spec Table A.1.
type DecodeTargetIndication uint8

const (
	// DecodeTargetNotPresent: the current frame is not part of the Decode
	// Target.
	DecodeTargetNotPresent DecodeTargetIndication = iota
	// DecodeTargetDiscardable: the current frame is part of the Decode
	// Target, but no subsequent frame of the Decode Target will depend on
	// it -- an SFM may discard it without affecting decodability.
	DecodeTargetDiscardable
	// DecodeTargetSwitch: the current frame is part of the Decode Target,
	// and every subsequent frame of the Decode Target will be decodable if
	// the current frame is -- an SFM may switch to the Decode Target here.
	DecodeTargetSwitch
	// DecodeTargetRequired: the current frame is part of the Decode
	// Target, and must be forwarded, but a Decode Target can't be switched
	// to at this frame.
	DecodeTargetRequired
)

func (d DecodeTargetIndication) String() string {
	switch d {
	case DecodeTargetNotPresent:
		return "not-present"
	case DecodeTargetDiscardable:
		return "discardable"
	case DecodeTargetSwitch:
		return "switch"
	case DecodeTargetRequired:
		return "required"
	default:
		return "invalid"
	}
}

func decodeTargetIndicationFromU2(u2 uint8) DecodeTargetIndication {
	// u2 is always the low 2 bits of an f(2) read, so all four values are
	// valid DecodeTargetIndication codes; the DTI code space is exhaustive
	// over two bits (spec.md §7).
	return DecodeTargetIndication(u2 & 0b11)
}

// DecodeTargetLayer is the (spatial_id, temporal_id) a Decode Target is
// associated with, derived from the templates that reference it.
type DecodeTargetLayer struct {
	SpatialId  SpatialId
	TemporalId TemporalId
}

// DecodeTarget carries everything a Selective Forwarding Middlebox needs to
// decide whether to forward the current frame for one Decode Target.
type DecodeTarget struct {
	// SpatialId is the spatial layer of the Decode Target.
	SpatialId SpatialId
	// TemporalId is the temporal layer of the Decode Target.
	TemporalId TemporalId
	// Active is true iff the Decode Target is currently being produced or
	// forwarded (bit i of the effective active-decode-targets bitmask).
	Active bool
	// Indication describes the current frame's relationship to this
	// Decode Target.
	Indication DecodeTargetIndication
	// ProtectingChainIndex is the Chain protecting this Decode Target, if
	// Chains are in use.
	ProtectingChainIndex *ChainIndex
}
