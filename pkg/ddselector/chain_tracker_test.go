// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ddselector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainTrackerStartsNotIntact(t *testing.T) {
	c := NewChainTracker()
	assert.False(t, c.Intact())
}

func TestChainTrackerBecomesIntactOnRestart(t *testing.T) {
	c := NewChainTracker()
	c.OnFrame(100, 0)
	assert.True(t, c.Intact())
}

func TestChainTrackerStaysIntactOnContinuousFrames(t *testing.T) {
	c := NewChainTracker()
	c.OnFrame(100, 0) // chain starts at frame 100
	c.OnFrame(103, 3) // references frame 100
	c.OnFrame(110, 7) // references frame 103
	assert.True(t, c.Intact())
}

func TestChainTrackerBreaksOnGap(t *testing.T) {
	c := NewChainTracker()
	c.OnFrame(100, 0)
	c.OnFrame(110, 5) // references frame 105, which was never seen
	assert.False(t, c.Intact())
}

func TestChainTrackerRecoversOnRestart(t *testing.T) {
	c := NewChainTracker()
	c.OnFrame(100, 0)
	c.OnFrame(110, 5) // gap
	c.OnFrame(200, 0) // new keyframe restarts the chain
	assert.True(t, c.Intact())
}
