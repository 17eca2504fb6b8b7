// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ddselector

import "github.com/pion-community/dependencydescriptor/pkg/dependencydescriptor"

// TargetLayer names the spatial/temporal ceiling a caller wants forwarded,
// e.g. from a receiver's REMB/quality request.
type TargetLayer struct {
	SpatialId  dependencydescriptor.SpatialId
	TemporalId dependencydescriptor.TemporalId
}

// Decision is what a Selector concluded about the current frame.
type Decision struct {
	// Forward is true if this frame should be forwarded to the receiver.
	Forward bool
	// SwitchingTo is non-nil if Forward is true and this frame is the
	// point at which the Selector is switching the receiver onto a new
	// Decode Target (so the caller may want to set the RTP marker bit
	// handling, flush reorder buffers, etc. accordingly).
	SwitchingTo *TargetLayer
}

// Selector picks, frame by frame, the highest Decode Target at or below a
// requested TargetLayer that is currently active, continuously decodable
// (its protecting Chain, if any, is intact), and not blocked by a
// DecodeTargetNotPresent indication on the current frame.
//
// Reference: livekit pkg/sfu/videolayerselector.DependencyDescriptor.Select
// (decode target iteration, dti == NotPresent handling, chain-driven
// intactness); pkg/videoframe ReceiverInterceptor for the per-SSRC-state
// shape this is modeled after.
type Selector struct {
	target TargetLayer

	structure *dependencydescriptor.SharedStructure
	chains    []*ChainTracker

	currentLayer         *TargetLayer
	unwrappedFrameNumber int64
	frameNumberStarted   bool
}

// NewSelector returns a Selector with no Frame Dependency Structure yet;
// the first call to Select must be fed a keyframe packet (one whose
// ParsedDescriptor.UpdatedSharedStructure is non-nil).
func NewSelector(target TargetLayer) *Selector {
	return &Selector{target: target}
}

// SetTarget updates the requested ceiling; it takes effect from the next
// Select call onward.
func (s *Selector) SetTarget(target TargetLayer) {
	s.target = target
}

func (s *Selector) unwrapFrameNumber(frameNumber dependencydescriptor.TruncatedFrameNumber) int64 {
	if !s.frameNumberStarted {
		s.frameNumberStarted = true
		s.unwrappedFrameNumber = int64(frameNumber)
		return s.unwrappedFrameNumber
	}
	diff := int64(frameNumber) - (s.unwrappedFrameNumber & 0xFFFF)
	if diff > 32768 {
		diff -= 65536
	} else if diff < -32768 {
		diff += 65536
	}
	s.unwrappedFrameNumber += diff
	return s.unwrappedFrameNumber
}

// Select resolves one ParsedDescriptor into a forwarding Decision.
//
// Select adopts parsed.UpdatedSharedStructure whenever it is non-nil,
// resetting every ChainTracker. pkg/ddcache.Stream.Parse returns each
// packet's own UpdatedSharedStructure unchanged, so a packet that arrives
// late carrying a structure still replaces the one this Selector holds.
func (s *Selector) Select(parsed *dependencydescriptor.ParsedDescriptor) Decision {
	unwrappedFrameNumber := s.unwrapFrameNumber(parsed.FrameNumber)

	if parsed.UpdatedSharedStructure != nil {
		s.structure = parsed.UpdatedSharedStructure
		s.chains = make([]*ChainTracker, s.structure.ChainCount)
		for i := range s.chains {
			s.chains[i] = NewChainTracker()
		}
	}
	if s.structure == nil {
		return Decision{Forward: false}
	}

	for i, diff := range parsed.PreviousFrameNumberDiffByChainIndex {
		if i < len(s.chains) {
			s.chains[i].OnFrame(unwrappedFrameNumber, diff)
		}
	}

	var best *dependencydescriptor.DecodeTarget
	for i := range parsed.DecodeTargets {
		dt := &parsed.DecodeTargets[i]
		if !dt.Active {
			continue
		}
		if dt.SpatialId > s.target.SpatialId || dt.TemporalId > s.target.TemporalId {
			continue
		}
		if dt.Indication == dependencydescriptor.DecodeTargetNotPresent {
			continue
		}
		if dt.ProtectingChainIndex != nil {
			idx := int(*dt.ProtectingChainIndex)
			if idx >= len(s.chains) || !s.chains[idx].Intact() {
				continue
			}
		}
		if best == nil || dt.SpatialId > best.SpatialId ||
			(dt.SpatialId == best.SpatialId && dt.TemporalId > best.TemporalId) {
			best = dt
		}
	}

	if best == nil {
		return Decision{Forward: false}
	}

	layer := TargetLayer{SpatialId: best.SpatialId, TemporalId: best.TemporalId}
	decision := Decision{Forward: true}
	if s.currentLayer == nil || *s.currentLayer != layer {
		decision.SwitchingTo = &layer
		s.currentLayer = &layer
	}
	return decision
}
