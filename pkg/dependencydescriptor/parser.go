// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dependencydescriptor

// parser holds the bitStream cursor used while decoding a single Dependency
// Descriptor extension payload.
type parser struct {
	bits bitStream
}

// f1 reads a single bit (f(1)).
func (p *parser) f1() (bool, error) {
	v, ok := p.bits.readBit()
	if !ok {
		return false, newParseError(ErrNotEnoughBits)
	}
	return v, nil
}

// f reads n (0..=32) bits as a big-endian unsigned integer (f(n)).
func (p *parser) f(n uint8) (uint32, error) {
	v, ok := p.bits.readU32(n)
	if !ok {
		return 0, newParseError(ErrNotEnoughBits)
	}
	return v, nil
}

func (p *parser) isEmpty() bool {
	return p.bits.isEmpty()
}

type mandatoryFields struct {
	startOfFrame bool
	endOfFrame   bool
	templateId   uint8
	frameNumber  uint16
}

// mandatoryDescriptorFields decodes the 24-bit mandatory prefix shared by
// every Dependency Descriptor extension payload.
//
// Reference: str0m Parser::mandatory_descriptor_fields (rtp/dependency_descriptor.rs
// lines 584-610).
func (p *parser) mandatoryDescriptorFields() (mandatoryFields, error) {
	startOfFrame, err := p.f1()
	if err != nil {
		return mandatoryFields{}, err
	}
	endOfFrame, err := p.f1()
	if err != nil {
		return mandatoryFields{}, err
	}
	templateId, err := p.f(6)
	if err != nil {
		return mandatoryFields{}, err
	}
	frameNumber, err := p.f(16)
	if err != nil {
		return mandatoryFields{}, err
	}
	return mandatoryFields{
		startOfFrame: startOfFrame,
		endOfFrame:   endOfFrame,
		templateId:   uint8(templateId),
		frameNumber:  uint16(frameNumber),
	}, nil
}

type customFlags struct {
	dtis   bool
	fdiffs bool
	chains bool
}

type extendedFields struct {
	sharedStructure            *SharedStructure
	activeDecodeTargetsBitmask *uint32
}

// extendedDescriptorFields decodes the five extended flags and, depending
// on them, a new SharedStructure and/or active-decode-targets bitmask. An
// explicit bitmask is DecodeTargetCount bits of the structure this packet
// carries, or of latestSharedStructure when it carries none.
//
// Reference: str0m Parser::extended_descriptor_fields (rtp/dependency_descriptor.rs
// lines 612-668).
func (p *parser) extendedDescriptorFields(latestSharedStructure *SharedStructure) (customFlags, *extendedFields, error) {
	structurePresent, err := p.f1()
	if err != nil {
		return customFlags{}, nil, err
	}
	activePresent, err := p.f1()
	if err != nil {
		return customFlags{}, nil, err
	}
	customDtis, err := p.f1()
	if err != nil {
		return customFlags{}, nil, err
	}
	customFdiffs, err := p.f1()
	if err != nil {
		return customFlags{}, nil, err
	}
	customChains, err := p.f1()
	if err != nil {
		return customFlags{}, nil, err
	}

	var structure *SharedStructure
	var activeBitmask *uint32

	if structurePresent {
		structure, err = p.templateDependencyStructure()
		if err != nil {
			return customFlags{}, nil, err
		}
		allOnes := uint32((uint64(1) << structure.DecodeTargetCount) - 1)
		activeBitmask = &allOnes
	}
	if activePresent {
		bitmaskStructure := structure
		if bitmaskStructure == nil {
			bitmaskStructure = latestSharedStructure
		}
		if bitmaskStructure == nil {
			return customFlags{}, nil, newParseError(ErrUnknownSharedStructure)
		}
		bitmask, err := p.f(bitmaskStructure.DecodeTargetCount)
		if err != nil {
			return customFlags{}, nil, err
		}
		activeBitmask = &bitmask
	}

	return customFlags{
			dtis:   customDtis,
			fdiffs: customFdiffs,
			chains: customChains,
		}, &extendedFields{
			sharedStructure:            structure,
			activeDecodeTargetsBitmask: activeBitmask,
		}, nil
}

// Parse decodes a single Dependency Descriptor extension payload against
// the caller's cached context.
//
// latestSharedStructure and latestActiveDecodeTargetsBitmask are the most
// recent values the caller has cached from a previous call to Parse (see
// ParsedDescriptor.UpdatedSharedStructure / UpdatedActiveDecodeTargetsBitmask);
// pass nil/nil for the very first packet of a coded video sequence, which
// must itself carry a new Shared Structure.
//
// Reference: str0m SerializedDepdendencyDescriptor::parse and
// Parser::dependency_descriptor (rtp/dependency_descriptor.rs lines 26-38, 513-582).
func Parse(
	buf []byte,
	latestSharedStructure *SharedStructure,
	latestActiveDecodeTargetsBitmask *uint32,
) (*ParsedDescriptor, error) {
	p := &parser{bits: newBitStream(buf)}

	mandatory, err := p.mandatoryDescriptorFields()
	if err != nil {
		return nil, err
	}

	var flags customFlags
	var ext *extendedFields
	if !p.isEmpty() {
		flags, ext, err = p.extendedDescriptorFields(latestSharedStructure)
		if err != nil {
			return nil, err
		}
	}

	sharedStructure := latestSharedStructure
	if ext != nil && ext.sharedStructure != nil {
		sharedStructure = ext.sharedStructure
	}
	if sharedStructure == nil {
		return nil, newParseError(ErrUnknownSharedStructure)
	}

	activeBitmask := latestActiveDecodeTargetsBitmask
	if ext != nil && ext.activeDecodeTargetsBitmask != nil {
		activeBitmask = ext.activeDecodeTargetsBitmask
	}
	if activeBitmask == nil {
		return nil, newParseError(ErrUnknownActiveDecodeTargetBitmask)
	}

	fdd, err := p.frameDependencyDefinition(sharedStructure, mandatory.templateId, flags)
	if err != nil {
		return nil, err
	}
	// zero_padding: MUST be set to 0 and be ignored by receivers; any
	// trailing 0-7 bits are not read.

	layers := sharedStructure.DecodeTargetLayers()
	decodeTargets := make([]DecodeTarget, len(layers))
	for i, layer := range layers {
		active, _ := readLSBitOfU32(*activeBitmask, uint8(i))
		indication := DecodeTargetNotPresent
		if i < len(fdd.decodeTargetIndications) {
			indication = fdd.decodeTargetIndications[i]
		}
		var protectingChainIndex *ChainIndex
		if i < len(sharedStructure.ProtectingChainIndexByDecodeTargetIndex) {
			v := sharedStructure.ProtectingChainIndexByDecodeTargetIndex[i]
			protectingChainIndex = &v
		}
		decodeTargets[i] = DecodeTarget{
			SpatialId:            layer.SpatialId,
			TemporalId:           layer.TemporalId,
			Active:               active,
			Indication:           indication,
			ProtectingChainIndex: protectingChainIndex,
		}
	}

	var updatedStructure *SharedStructure
	var updatedBitmask *uint32
	if ext != nil {
		updatedStructure = ext.sharedStructure
		updatedBitmask = ext.activeDecodeTargetsBitmask
	}

	return &ParsedDescriptor{
		FrameNumber:                         mandatory.frameNumber,
		SpatialId:                           fdd.spatialId,
		TemporalId:                          fdd.temporalId,
		Resolution:                          fdd.resolution,
		ReferredFrameNumberDiffs:            fdd.referredFrameNumberDiffs,
		PreviousFrameNumberDiffByChainIndex: fdd.chainFrameNumberDiffs,
		FirstPacketOfFrame:                  mandatory.startOfFrame,
		LastPacketOfFrame:                   mandatory.endOfFrame,
		DecodeTargets:                       decodeTargets,
		UpdatedSharedStructure:              updatedStructure,
		UpdatedActiveDecodeTargetsBitmask:   updatedBitmask,
	}, nil
}
