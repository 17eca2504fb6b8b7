// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dependencydescriptor

import "testing"

func TestSerializedDescriptorNeedsTwoByteHeader(t *testing.T) {
	small := NewSerializedDescriptor(make([]byte, 16))
	if small.NeedsTwoByteHeader() {
		t.Fatal("a 16-byte payload fits the one-byte extension profile")
	}
	large := NewSerializedDescriptor(make([]byte, 17))
	if !large.NeedsTwoByteHeader() {
		t.Fatal("a 17-byte payload requires the two-byte extension profile")
	}
}

func TestSerializedDescriptorWriteTo(t *testing.T) {
	d := NewSerializedDescriptor([]byte{1, 2, 3})
	dst := make([]byte, 3)
	n, err := d.WriteTo(dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || dst[0] != 1 || dst[2] != 3 {
		t.Fatalf("unexpected WriteTo result: n=%d dst=%v", n, dst)
	}

	if _, err := d.WriteTo(make([]byte, 2)); err == nil {
		t.Fatal("expected an error writing into an undersized destination")
	}
}

func TestSerializedDescriptorCloneIsIndependent(t *testing.T) {
	raw := []byte{1, 2, 3}
	d := NewSerializedDescriptor(raw)
	clone := d.Clone()
	raw[0] = 0xFF
	if clone.Bytes()[0] == 0xFF {
		t.Fatal("Clone should not alias the original backing array")
	}
	if !d.Equal(NewSerializedDescriptor([]byte{0xFF, 2, 3})) {
		t.Fatal("Equal should compare current bytes")
	}
}

func TestSerializedDescriptorParseValue(t *testing.T) {
	buf := buildMinimalKeyframe(t, DecodeTargetRequired)
	d := NewSerializedDescriptor(buf)
	parsed, err := d.ParseValue(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.DecodeTargets[0].Indication != DecodeTargetRequired {
		t.Fatalf("got %v, want Required", parsed.DecodeTargets[0].Indication)
	}
}

func TestMediaAffinity(t *testing.T) {
	if !IsVideo() {
		t.Fatal("expected IsVideo to be true")
	}
	if IsAudio() {
		t.Fatal("expected IsAudio to be false")
	}
}
