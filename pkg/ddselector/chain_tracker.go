// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package ddselector decides, frame by frame, which Decode Target a
// Selective Forwarding Middlebox should forward for an AV1 simulcast/SVC
// stream, using the Dependency Descriptor that pkg/dependencydescriptor
// decodes. Chain intactness is deliberately not part of the core decoder
// (it isn't a wire field, and computing it needs history the decoder
// doesn't keep) -- ChainTracker is where that history lives.
//
// Reference: github.com/livekit/livekit-server pkg/sfu/dependencydescriptor
// (videolayerselector/dependencydescriptor.go FrameChain, not vendored here).
package ddselector

import "github.com/pion-community/dependencydescriptor/pkg/dependencydescriptor"

// ChainTracker tracks whether every frame of one Chain has been observed,
// in order, since the chain's last reset (a new Frame Dependency Structure
// or a gap that can never be recovered).
//
// A Chain is "intact" exactly when, for every frame seen so far that
// protects it, the frame this one's chain diff points back to was itself
// seen. A single gap marks the chain not-intact until the next frame that
// starts a fresh chain (chain diff == 0).
type ChainTracker struct {
	// started is false until the first frame that starts this chain (chain
	// diff == 0) has been observed.
	started bool
	// expectedFrameNumber is the unwrapped frame number ChainTracker
	// expects the next chain-protecting frame to either equal (chain
	// continues) or restart from (diff == 0).
	expectedFrameNumber int64
	intact              bool
}

// NewChainTracker returns a ChainTracker with no history; it reports
// Intact() == false until the first frame with chain diff 0 is recorded.
func NewChainTracker() *ChainTracker {
	return &ChainTracker{}
}

// OnFrame records one frame's contribution to this chain.
//
// unwrappedFrameNumber is the frame's own unwrapped frame number (see
// pkg/ddcache.Unwrapper). diff is the chain's entry in the frame's
// PreviousFrameNumberDiffByChainIndex: 0 means this frame restarts the
// chain, and any other value is subtracted from unwrappedFrameNumber to
// get the frame number this one depends on for the chain.
func (c *ChainTracker) OnFrame(unwrappedFrameNumber int64, diff dependencydescriptor.FrameNumberDiff) {
	if diff == 0 {
		c.started = true
		c.intact = true
		c.expectedFrameNumber = unwrappedFrameNumber
		return
	}
	if !c.started {
		c.intact = false
		c.expectedFrameNumber = unwrappedFrameNumber
		return
	}

	referenced := unwrappedFrameNumber - int64(diff)
	if referenced != c.expectedFrameNumber {
		c.intact = false
	}
	c.expectedFrameNumber = unwrappedFrameNumber
}

// Intact reports whether every frame protecting this chain, as far back as
// this ChainTracker has seen, has itself been observed.
func (c *ChainTracker) Intact() bool {
	return c.started && c.intact
}
