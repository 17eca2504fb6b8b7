// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dependencydescriptor

// frameDependencyDefinition is the fully-resolved per-frame information: the
// template's fields, with any custom overrides from the wire applied on top.
//
// Reference: str0m FrameDependencyDefinition (rtp/dependency_descriptor.rs
// lines 289-330).
type frameDependencyDefinition struct {
	spatialId                SpatialId
	temporalId               TemporalId
	resolution               *Resolution
	decodeTargetIndications  []DecodeTargetIndication
	referredFrameNumberDiffs []FrameNumberDiff
	chainFrameNumberDiffs    []FrameNumberDiff
}

// frameDependencyDefinition decodes a frame_dependency_definition(): it
// resolves templateId against structure's template table and then applies
// whichever of frame_dtis()/frame_fdiffs()/frame_chains() the extended
// custom-* flags indicate are present on the wire.
//
// Reference: str0m Parser::frame_dependency_definition (rtp/dependency_descriptor.rs
// lines 990-1043).
func (p *parser) frameDependencyDefinition(
	structure *SharedStructure,
	templateId uint8,
	flags customFlags,
) (*frameDependencyDefinition, error) {
	tidx := (int(templateId) + 64 - int(structure.TemplateIdOffset)) % 64
	if tidx >= len(structure.TemplateByIdMinusOffset) {
		return nil, newParseError(ErrInvalidTemplateId)
	}
	tmpl := structure.TemplateByIdMinusOffset[tidx]

	fdd := &frameDependencyDefinition{
		spatialId:                tmpl.SpatialId,
		temporalId:               tmpl.TemporalId,
		decodeTargetIndications:  append([]DecodeTargetIndication(nil), tmpl.DecodeTargetIndications...),
		referredFrameNumberDiffs: append([]FrameNumberDiff(nil), tmpl.ReferredFrameNumberDiffs...),
		chainFrameNumberDiffs:    append([]FrameNumberDiff(nil), tmpl.ChainFrameNumberDiffs...),
	}

	if int(tmpl.SpatialId) < len(structure.ResolutionBySpatialId) {
		res := structure.ResolutionBySpatialId[tmpl.SpatialId]
		fdd.resolution = &res
	}

	if flags.dtis {
		dtis, err := p.frameDtis(structure.DecodeTargetCount)
		if err != nil {
			return nil, err
		}
		fdd.decodeTargetIndications = dtis
	}
	if flags.fdiffs {
		fdiffs, err := p.frameFdiffs()
		if err != nil {
			return nil, err
		}
		fdd.referredFrameNumberDiffs = fdiffs
	}
	if flags.chains {
		chains, err := p.frameChains(structure.ChainCount)
		if err != nil {
			return nil, err
		}
		fdd.chainFrameNumberDiffs = chains
	}

	return fdd, nil
}

// frameDtis decodes frame_dtis(): decodeTargetCount 2-bit DTI overrides.
//
// Reference: str0m Parser::frame_dtis (rtp/dependency_descriptor.rs lines 1045-1057).
func (p *parser) frameDtis(decodeTargetCount uint8) ([]DecodeTargetIndication, error) {
	out := make([]DecodeTargetIndication, 0, decodeTargetCount)
	for i := uint8(0); i < decodeTargetCount; i++ {
		v, err := p.f(2)
		if err != nil {
			return nil, err
		}
		out = append(out, decodeTargetIndicationFromU2(uint8(v)))
	}
	return out, nil
}

// frameFdiffs decodes frame_fdiffs(): a next_fdiff_size-terminated run of
// fdiffs, each a 4*size-bit fdiff_minus_one where size in {1,2,3}.
//
// Reference: str0m Parser::frame_fdiffs (rtp/dependency_descriptor.rs lines 1059-1081).
func (p *parser) frameFdiffs() ([]FrameNumberDiff, error) {
	var out []FrameNumberDiff
	for {
		nextFdiffSize, err := p.f(2)
		if err != nil {
			return nil, err
		}
		if nextFdiffSize == 0 {
			break
		}
		fdiffMinusOne, err := p.f(4 * uint8(nextFdiffSize))
		if err != nil {
			return nil, err
		}
		out = append(out, FrameNumberDiff(fdiffMinusOne)+1)
	}
	return out, nil
}

// frameChains decodes frame_chains(): chainCount 8-bit chain diffs.
//
// Reference: str0m Parser::frame_chains (rtp/dependency_descriptor.rs lines 1083-1095).
func (p *parser) frameChains(chainCount uint8) ([]FrameNumberDiff, error) {
	out := make([]FrameNumberDiff, 0, chainCount)
	for i := uint8(0); i < chainCount; i++ {
		v, err := p.f(8)
		if err != nil {
			return nil, err
		}
		out = append(out, FrameNumberDiff(v))
	}
	return out, nil
}
