// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dependencydescriptor

// FrameDependencyTemplate is a precomputed (spatial_id, temporal_id, DTIs,
// referred-frame diffs, chain diffs) tuple that a frame can reference
// instead of repeating the information on the wire.
//
// Reference: str0m SharedStructureTemplate (rtp/dependency_descriptor.rs
// lines 228-260); AV1 RTP spec "Frame dependency template".
type FrameDependencyTemplate struct {
	SpatialId  SpatialId
	TemporalId TemporalId

	// DecodeTargetIndications has one entry per Decode Target.
	DecodeTargetIndications []DecodeTargetIndication

	// ReferredFrameNumberDiffs holds this template's frame-diffs, each in
	// 1..=16.
	ReferredFrameNumberDiffs []FrameNumberDiff

	// ChainFrameNumberDiffs holds one diff per Chain, each in 0..=15.
	ChainFrameNumberDiffs []FrameNumberDiff
}

func (t FrameDependencyTemplate) clone() FrameDependencyTemplate {
	clone := t
	clone.DecodeTargetIndications = append([]DecodeTargetIndication(nil), t.DecodeTargetIndications...)
	clone.ReferredFrameNumberDiffs = append([]FrameNumberDiff(nil), t.ReferredFrameNumberDiffs...)
	clone.ChainFrameNumberDiffs = append([]FrameNumberDiff(nil), t.ChainFrameNumberDiffs...)
	return clone
}

// SharedStructure is the per-coded-video-sequence Frame Dependency
// Structure: the template table, chain-to-decode-target mapping, and
// optional render resolutions. Callers cache the latest value and pass it
// back into Parse.
//
// Reference: str0m SharedStructure (rtp/dependency_descriptor.rs lines
// 186-287); AV1 RTP spec "Frame dependency structure".
type SharedStructure struct {
	// DecodeTargetCount is in 1..=32.
	DecodeTargetCount uint8
	// ChainCount is in 0..=32. Zero means Chains are unused.
	ChainCount uint8

	// ProtectingChainIndexByDecodeTargetIndex has length DecodeTargetCount
	// when ChainCount > 0, and is empty otherwise.
	ProtectingChainIndexByDecodeTargetIndex []ChainIndex

	// ResolutionBySpatialId is present iff the structure carried render
	// resolutions; when present its length is max_spatial_id+1.
	ResolutionBySpatialId []Resolution

	// TemplateByIdMinusOffset is indexed by (template_id -
	// template_id_offset) mod 64.
	TemplateByIdMinusOffset []FrameDependencyTemplate

	// TemplateIdOffset is in 0..=63.
	TemplateIdOffset uint8

	decodeTargetLayers []DecodeTargetLayer
}

// DecodeTargetLayers returns the (spatial_id, temporal_id) of each Decode
// Target, derived by taking the component-wise maximum, across every
// template that references the target (DTI != NotPresent), of the
// template's own layer IDs. This is a derivation, not a wire field -- it's
// stable given a SharedStructure, so it's memoized here the first time it's
// computed (spec.md §9: "should be memoized on the cached structure").
//
// Reference: str0m SharedStructure::decode_target_layers (rtp/dependency_descriptor.rs
// lines 262-287).
func (s *SharedStructure) DecodeTargetLayers() []DecodeTargetLayer {
	if s.decodeTargetLayers == nil {
		s.decodeTargetLayers = make([]DecodeTargetLayer, s.DecodeTargetCount)
		for dtIndex := uint8(0); dtIndex < s.DecodeTargetCount; dtIndex++ {
			var spatialId, temporalId uint8
			for _, tmpl := range s.TemplateByIdMinusOffset {
				if int(dtIndex) >= len(tmpl.DecodeTargetIndications) {
					continue
				}
				if tmpl.DecodeTargetIndications[dtIndex] == DecodeTargetNotPresent {
					continue
				}
				if tmpl.SpatialId > spatialId {
					spatialId = tmpl.SpatialId
				}
				if tmpl.TemporalId > temporalId {
					temporalId = tmpl.TemporalId
				}
			}
			s.decodeTargetLayers[dtIndex] = DecodeTargetLayer{SpatialId: spatialId, TemporalId: temporalId}
		}
	}
	return s.decodeTargetLayers
}

// templateDependencyStructure decodes a template_dependency_structure().
//
// Reference: str0m Parser::template_dependency_structure (rtp/dependency_descriptor.rs
// lines 680-728).
func (p *parser) templateDependencyStructure() (*SharedStructure, error) {
	templateIdOffset, err := p.f(6)
	if err != nil {
		return nil, err
	}
	dtCntMinusOne, err := p.f(5)
	if err != nil {
		return nil, err
	}
	decodeTargetCount := uint8(dtCntMinusOne) + 1

	templates, err := p.templateLayers()
	if err != nil {
		return nil, err
	}
	if err := p.templateDTIs(templates, decodeTargetCount); err != nil {
		return nil, err
	}
	if err := p.templateFdiffs(templates); err != nil {
		return nil, err
	}
	chainCount, protectingChainIndexByDecodeTargetIndex, err := p.templateChains(templates, decodeTargetCount)
	if err != nil {
		return nil, err
	}

	resolutionsPresentFlag, err := p.f1()
	if err != nil {
		return nil, err
	}
	var resolutionBySpatialId []Resolution
	if resolutionsPresentFlag {
		if len(templates) > 0 {
			var maxSpatialId SpatialId
			for _, tmpl := range templates {
				if tmpl.SpatialId > maxSpatialId {
					maxSpatialId = tmpl.SpatialId
				}
			}
			resolutionBySpatialId, err = p.renderResolutions(maxSpatialId)
			if err != nil {
				return nil, err
			}
		} else {
			resolutionBySpatialId = []Resolution{}
		}
	}

	out := make([]FrameDependencyTemplate, len(templates))
	for i, tmpl := range templates {
		out[i] = *tmpl
	}

	return &SharedStructure{
		DecodeTargetCount:                       decodeTargetCount,
		ChainCount:                              chainCount,
		ProtectingChainIndexByDecodeTargetIndex: protectingChainIndexByDecodeTargetIndex,
		ResolutionBySpatialId:                   resolutionBySpatialId,
		TemplateByIdMinusOffset:                 out,
		TemplateIdOffset:                        uint8(templateIdOffset),
	}, nil
}

// templateLayers decodes template_layers(): the next_layer_idc-driven
// expansion of the template table's (spatial_id, temporal_id) sequence.
//
// Reference: str0m Parser::template_layers (rtp/dependency_descriptor.rs
// lines 782-844). Per spec.md §9 (and the REDESIGN note there), next_layer_idc
// == 2 here computes the new spatial_id from the *previous spatial_id*, not
// the previous temporal_id as str0m's source literally does -- that's
// recorded there as a likely bug in the source, and this implementation
// follows the AV1 spec text instead.
func (p *parser) templateLayers() ([]*FrameDependencyTemplate, error) {
	templates := []*FrameDependencyTemplate{{SpatialId: 0, TemporalId: 0}}

	for {
		nextLayerIdc, err := p.f(2)
		if err != nil {
			return nil, err
		}
		last := templates[len(templates)-1]

		switch nextLayerIdc {
		case 0:
			next := last.clone()
			templates = append(templates, &next)
		case 1:
			if last.TemporalId == 255 {
				return nil, newParseError(ErrInvalidTemporalId)
			}
			next := last.clone()
			next.TemporalId = last.TemporalId + 1
			templates = append(templates, &next)
		case 2:
			if last.SpatialId == 255 {
				return nil, newParseError(ErrInvalidSpatialId)
			}
			next := last.clone()
			next.SpatialId = last.SpatialId + 1
			next.TemporalId = 0
			templates = append(templates, &next)
		case 3:
			return templates, nil
		}
	}
}

// renderResolutions decodes render_resolutions() for spatial IDs
// 0..=maxSpatialId.
//
// Reference: str0m Parser::render_resolutions (rtp/dependency_descriptor.rs
// lines 846-861).
func (p *parser) renderResolutions(maxSpatialId SpatialId) ([]Resolution, error) {
	resolutions := make([]Resolution, 0, int(maxSpatialId)+1)
	for i := 0; i <= int(maxSpatialId); i++ {
		width, err := p.f(16)
		if err != nil {
			return nil, err
		}
		height, err := p.f(16)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, Resolution{
			MaxRenderWidth:  width + 1,
			MaxRenderHeight: height + 1,
		})
	}
	return resolutions, nil
}

// templateDTIs decodes template_dtis(): decodeTargetCount DTI codes per
// template, in template order.
//
// Reference: str0m Parser::template_dtis (rtp/dependency_descriptor.rs
// lines 863-888).
func (p *parser) templateDTIs(templates []*FrameDependencyTemplate, decodeTargetCount uint8) error {
	for _, tmpl := range templates {
		tmpl.DecodeTargetIndications = make([]DecodeTargetIndication, 0, decodeTargetCount)
		for i := uint8(0); i < decodeTargetCount; i++ {
			v, err := p.f(2)
			if err != nil {
				return err
			}
			tmpl.DecodeTargetIndications = append(tmpl.DecodeTargetIndications, decodeTargetIndicationFromU2(uint8(v)))
		}
	}
	return nil
}

// templateFdiffs decodes template_fdiffs(): a fdiff_follows_flag-terminated
// run of 4-bit fdiff_minus_one values per template.
//
// Reference: str0m Parser::template_fdiffs (rtp/dependency_descriptor.rs
// lines 903-928).
func (p *parser) templateFdiffs(templates []*FrameDependencyTemplate) error {
	for _, tmpl := range templates {
		for {
			follows, err := p.f1()
			if err != nil {
				return err
			}
			if !follows {
				break
			}
			fdiffMinusOne, err := p.f(4)
			if err != nil {
				return err
			}
			tmpl.ReferredFrameNumberDiffs = append(tmpl.ReferredFrameNumberDiffs, FrameNumberDiff(fdiffMinusOne)+1)
		}
	}
	return nil
}

// templateChains decodes template_chains(): the ns(decodeTargetCount+1)
// chain count, the per-decode-target protecting chain index, and the
// per-template chain diffs.
//
// Reference: str0m Parser::template_chains (rtp/dependency_descriptor.rs
// lines 951-987).
func (p *parser) templateChains(templates []*FrameDependencyTemplate, decodeTargetCount uint8) (uint8, []ChainIndex, error) {
	chainCount, err := p.readNS(decodeTargetCount + 1)
	if err != nil {
		return 0, nil, err
	}
	if chainCount == 0 {
		return 0, nil, nil
	}

	protectingChainIndexByDecodeTargetIndex := make([]ChainIndex, 0, decodeTargetCount)
	for i := uint8(0); i < decodeTargetCount; i++ {
		idx, err := p.readNS(chainCount)
		if err != nil {
			return 0, nil, err
		}
		protectingChainIndexByDecodeTargetIndex = append(protectingChainIndexByDecodeTargetIndex, idx)
	}

	for _, tmpl := range templates {
		tmpl.ChainFrameNumberDiffs = make([]FrameNumberDiff, 0, chainCount)
		for i := uint8(0); i < chainCount; i++ {
			diff, err := p.f(4)
			if err != nil {
				return 0, nil, err
			}
			tmpl.ChainFrameNumberDiffs = append(tmpl.ChainFrameNumberDiffs, FrameNumberDiff(diff))
		}
	}

	return chainCount, protectingChainIndexByDecodeTargetIndex, nil
}
