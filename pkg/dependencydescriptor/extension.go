// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dependencydescriptor

// SerializedDescriptor is an already-encoded Dependency Descriptor RTP
// header extension payload. It's an opaque byte wrapper rather than a
// struct with a Marshal method because this package has no encoder for
// *new* descriptors (nor does any other package in this module); it only
// moves already-encoded bytes in and out of an RTP extension slot and
// parses them back with Parse.
//
// Reference: pion/rtp Packet.SetExtension (extension header size selection);
// str0m ExtensionSerializer impl for DependencyDescriptor (rtp/dependency_descriptor.rs
// lines 40-63).
type SerializedDescriptor struct {
	raw []byte
}

// NewSerializedDescriptor wraps an already-encoded payload. The slice is not
// copied; callers that reuse buf afterwards should pass a copy.
func NewSerializedDescriptor(buf []byte) SerializedDescriptor {
	return SerializedDescriptor{raw: buf}
}

// Bytes returns the wrapped payload.
func (d SerializedDescriptor) Bytes() []byte {
	return d.raw
}

// Clone returns a SerializedDescriptor backed by an independent copy of the
// underlying bytes.
func (d SerializedDescriptor) Clone() SerializedDescriptor {
	out := make([]byte, len(d.raw))
	copy(out, d.raw)
	return SerializedDescriptor{raw: out}
}

// Equal reports whether two SerializedDescriptor values carry the same
// bytes.
func (d SerializedDescriptor) Equal(other SerializedDescriptor) bool {
	if len(d.raw) != len(other.raw) {
		return false
	}
	for i := range d.raw {
		if d.raw[i] != other.raw[i] {
			return false
		}
	}
	return true
}

// NeedsTwoByteHeader reports whether this payload's length forces the RFC
// 8285 two-byte extension header profile: the one-byte profile's length
// nibble can only address 1..=16 bytes of extension data.
//
// Reference: pion/rtp Packet.SetExtension (ExtensionProfileOneByte 16-byte
// cap vs. ExtensionProfileTwoByte 255-byte cap).
func (d SerializedDescriptor) NeedsTwoByteHeader() bool {
	return len(d.raw) > 16
}

// WriteTo copies the payload into dst, which must be at least len(d.raw)
// bytes, and returns the number of bytes written.
func (d SerializedDescriptor) WriteTo(dst []byte) (int, error) {
	if len(dst) < len(d.raw) {
		return 0, newParseError(ErrNotEnoughBits)
	}
	return copy(dst, d.raw), nil
}

// ParseValue parses this payload against cached context, delegating to
// Parse. It exists alongside the package-level Parse so that callers
// holding a SerializedDescriptor (e.g. after reading it back out of an
// rtp.Header.Extension) don't need to re-extract the raw bytes themselves.
func (d SerializedDescriptor) ParseValue(
	latestSharedStructure *SharedStructure,
	latestActiveDecodeTargetsBitmask *uint32,
) (*ParsedDescriptor, error) {
	return Parse(d.raw, latestSharedStructure, latestActiveDecodeTargetsBitmask)
}

// IsVideo reports that this extension applies to video media.
func IsVideo() bool { return true }

// IsAudio reports that this extension never applies to audio media: the
// Dependency Descriptor only has meaning for a scalable video coding
// structure.
func IsAudio() bool { return false }
