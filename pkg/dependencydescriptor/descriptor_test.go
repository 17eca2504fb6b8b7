// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dependencydescriptor

import "testing"

// buildMinimalKeyframe encodes a single-template, single-decode-target,
// no-chains, no-resolutions Dependency Descriptor carrying a brand new
// Frame Dependency Structure -- the smallest payload a coded video
// sequence's very first frame can use.
func buildMinimalKeyframe(t *testing.T, dti DecodeTargetIndication) []byte {
	t.Helper()
	w := &testBitWriter{}
	w.writeBit(true)   // start_of_frame
	w.writeBit(true)   // end_of_frame
	w.writeBits(0, 6)  // template_id
	w.writeBits(1, 16) // frame_number

	w.writeBit(true)  // template_dependency_structure_present_flag
	w.writeBit(false) // active_decode_targets_bitmask_present_flag
	w.writeBit(false) // custom_dtis_flag
	w.writeBit(false) // custom_fdiffs_flag
	w.writeBit(false) // custom_chains_flag

	w.writeBits(0, 6) // template_id_offset
	w.writeBits(0, 5) // dt_cnt_minus_one -> decodeTargetCount = 1

	w.writeBits(3, 2) // next_layer_idc = 3 (terminate): single template (0,0)

	w.writeBits(uint32(dti), 2) // template_dtis[0][0]

	w.writeBit(false) // template_fdiffs terminator

	w.writeBit(false) // ns(2) chain count, 1 bit since w=2 here: chainCount = 0

	w.writeBit(false) // resolutions_present_flag

	return w.bytes()
}

func TestParseMinimalKeyframe(t *testing.T) {
	buf := buildMinimalKeyframe(t, DecodeTargetSwitch)

	parsed, err := Parse(buf, nil, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if parsed.FrameNumber != 1 {
		t.Fatalf("FrameNumber = %d, want 1", parsed.FrameNumber)
	}
	if !parsed.FirstPacketOfFrame || !parsed.LastPacketOfFrame {
		t.Fatal("expected both start_of_frame and end_of_frame set")
	}
	if parsed.SpatialId != 0 || parsed.TemporalId != 0 {
		t.Fatalf("got spatial=%d temporal=%d, want 0,0", parsed.SpatialId, parsed.TemporalId)
	}
	if parsed.UpdatedSharedStructure == nil {
		t.Fatal("expected a new SharedStructure")
	}
	if parsed.UpdatedActiveDecodeTargetsBitmask == nil || *parsed.UpdatedActiveDecodeTargetsBitmask != 1 {
		t.Fatalf("expected all-ones bitmask for 1 decode target, got %v", parsed.UpdatedActiveDecodeTargetsBitmask)
	}
	if len(parsed.DecodeTargets) != 1 {
		t.Fatalf("len(DecodeTargets) = %d, want 1", len(parsed.DecodeTargets))
	}
	dt := parsed.DecodeTargets[0]
	if !dt.Active {
		t.Fatal("expected decode target 0 to be active")
	}
	if dt.Indication != DecodeTargetSwitch {
		t.Fatalf("Indication = %v, want Switch", dt.Indication)
	}
	if dt.ProtectingChainIndex != nil {
		t.Fatal("expected nil ProtectingChainIndex when chains are unused")
	}
}

func TestParseWithoutCachedStructureFails(t *testing.T) {
	w := &testBitWriter{}
	w.writeBit(true)
	w.writeBit(true)
	w.writeBits(0, 6)
	w.writeBits(1, 16)
	// no extended fields at all: buffer ends right after the mandatory
	// fields, so isEmpty() is true and extendedDescriptorFields is never
	// invoked.
	_, err := Parse(w.bytes(), nil, nil)
	if err == nil {
		t.Fatal("expected ErrUnknownSharedStructure")
	}
	if pe, ok := err.(*ParseError); !ok || pe.Kind != ErrUnknownSharedStructure {
		t.Fatalf("got %v, want ErrUnknownSharedStructure", err)
	}
}

func TestParseReusesCachedStructureAcrossPackets(t *testing.T) {
	first := buildMinimalKeyframe(t, DecodeTargetSwitch)
	parsed1, err := Parse(first, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	// A subsequent packet referencing template_id 0 with no extended
	// fields at all must resolve against the structure cached from the
	// previous packet.
	w := &testBitWriter{}
	w.writeBit(false) // start_of_frame
	w.writeBit(true)  // end_of_frame
	w.writeBits(0, 6) // template_id
	w.writeBits(2, 16)

	parsed2, err := Parse(w.bytes(), parsed1.UpdatedSharedStructure, parsed1.UpdatedActiveDecodeTargetsBitmask)
	if err != nil {
		t.Fatalf("Parse with cached structure: %v", err)
	}
	if parsed2.FrameNumber != 2 {
		t.Fatalf("FrameNumber = %d, want 2", parsed2.FrameNumber)
	}
	if parsed2.UpdatedSharedStructure != nil {
		t.Fatal("expected no structure update on a packet that doesn't carry one")
	}
	if parsed2.DecodeTargets[0].Indication != DecodeTargetSwitch {
		t.Fatalf("expected template's own DTI to carry over, got %v", parsed2.DecodeTargets[0].Indication)
	}
}
