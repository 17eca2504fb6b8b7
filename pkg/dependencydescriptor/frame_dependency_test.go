// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dependencydescriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseStructure() *SharedStructure {
	return &SharedStructure{
		DecodeTargetCount: 2,
		ChainCount:        2,
		TemplateByIdMinusOffset: []FrameDependencyTemplate{
			{
				SpatialId:                0,
				TemporalId:               0,
				DecodeTargetIndications:  []DecodeTargetIndication{DecodeTargetSwitch, DecodeTargetSwitch},
				ReferredFrameNumberDiffs: []FrameNumberDiff{1},
				ChainFrameNumberDiffs:    []FrameNumberDiff{1, 1},
			},
		},
	}
}

func TestFrameDependencyDefinitionUsesTemplateByDefault(t *testing.T) {
	structure := baseStructure()
	p := &parser{bits: newBitStream(nil)}
	fdd, err := p.frameDependencyDefinition(structure, 0, customFlags{})
	require.NoError(t, err)
	assert.Equal(t, []DecodeTargetIndication{DecodeTargetSwitch, DecodeTargetSwitch}, fdd.decodeTargetIndications)
	assert.Equal(t, []FrameNumberDiff{1}, fdd.referredFrameNumberDiffs)
}

func TestFrameDependencyDefinitionInvalidTemplateId(t *testing.T) {
	structure := baseStructure()
	p := &parser{bits: newBitStream(nil)}
	_, err := p.frameDependencyDefinition(structure, 5, customFlags{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTemplateIdError)
}

func TestFrameDependencyDefinitionCustomDtis(t *testing.T) {
	structure := baseStructure()
	w := &testBitWriter{}
	w.writeBits(uint32(DecodeTargetNotPresent), 2)
	w.writeBits(uint32(DecodeTargetRequired), 2)
	p := &parser{bits: newBitStream(w.bytes())}

	fdd, err := p.frameDependencyDefinition(structure, 0, customFlags{dtis: true})
	require.NoError(t, err)
	assert.Equal(t, []DecodeTargetIndication{DecodeTargetNotPresent, DecodeTargetRequired}, fdd.decodeTargetIndications)
}

func TestFrameDependencyDefinitionCustomFdiffs(t *testing.T) {
	structure := baseStructure()
	w := &testBitWriter{}
	w.writeBits(1, 2) // next_fdiff_size = 1 -> 4-bit fdiff follows
	w.writeBits(2, 4) // fdiff_minus_one = 2 -> fdiff = 3
	w.writeBits(0, 2) // terminator
	p := &parser{bits: newBitStream(w.bytes())}

	fdd, err := p.frameDependencyDefinition(structure, 0, customFlags{fdiffs: true})
	require.NoError(t, err)
	assert.Equal(t, []FrameNumberDiff{3}, fdd.referredFrameNumberDiffs)
}

func TestFrameDependencyDefinitionCustomChains(t *testing.T) {
	structure := baseStructure()
	w := &testBitWriter{}
	w.writeBits(5, 8)
	w.writeBits(7, 8)
	p := &parser{bits: newBitStream(w.bytes())}

	fdd, err := p.frameDependencyDefinition(structure, 0, customFlags{chains: true})
	require.NoError(t, err)
	assert.Equal(t, []FrameNumberDiff{5, 7}, fdd.chainFrameNumberDiffs)
}
