// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ddcache

import (
	"sync"

	"github.com/pion-community/dependencydescriptor/pkg/dependencydescriptor"
)

// Stream caches the Dependency Descriptor context for one incoming RTP
// stream (one SSRC) and resolves it against each arriving packet.
//
// The Dependency Descriptor extension leaves it up to the receiver to carry
// the latest Frame Dependency Structure and active-decode-targets bitmask
// forward across packets that don't repeat them, and to resolve packet
// reordering by always trusting whichever packet is newest by RTP sequence
// number -- not by arrival order. Stream owns exactly that state machine so
// callers can just feed it packets as they arrive.
//
// Reference: pkg/videoframe streamState + sequenceUnwrapper
// (receiver_interceptor.go), guarded the same way with a per-stream mutex.
type Stream struct {
	mu sync.Mutex

	unwrapper Unwrapper
	hasLatest bool
	latestSeq int64

	structure *dependencydescriptor.SharedStructure
	bitmask   *uint32
}

// NewStream returns an empty Stream. The first packet fed to it must carry
// a full Frame Dependency Structure, or Parse returns
// dependencydescriptor.ErrUnknownSharedStructureError.
func NewStream() *Stream {
	return &Stream{}
}

// Parse unwraps seq against this Stream's history, parses buf against the
// currently cached context, and -- only if seq is newer than every
// previously seen sequence number -- adopts any structure/bitmask update
// the packet carried as the new cached context.
//
// A packet that arrives late (behind a newer packet this Stream already
// saw) is still parsed and returned, using the cache as of now; it just
// never gets to overwrite the cache with stale information.
func (s *Stream) Parse(seq uint16, buf []byte) (*dependencydescriptor.ParsedDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unwrapped := s.unwrapper.Unwrap(seq)

	parsed, err := dependencydescriptor.Parse(buf, s.structure, s.bitmask)
	if err != nil {
		return nil, err
	}

	isNewest := !s.hasLatest || unwrapped > s.latestSeq
	if isNewest {
		s.hasLatest = true
		s.latestSeq = unwrapped
		if parsed.UpdatedSharedStructure != nil {
			s.structure = parsed.UpdatedSharedStructure
		}
		if parsed.UpdatedActiveDecodeTargetsBitmask != nil {
			s.bitmask = parsed.UpdatedActiveDecodeTargetsBitmask
		}
	}

	return parsed, nil
}

// SharedStructure returns the currently cached Frame Dependency Structure,
// or nil if none has been observed yet.
func (s *Stream) SharedStructure() *dependencydescriptor.SharedStructure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.structure
}

// Cache fans Stream state out by SSRC, mirroring how pkg/videoframe's
// ReceiverInterceptor keeps one streamState per SSRC behind a single mutex.
type Cache struct {
	mu      sync.Mutex
	streams map[uint32]*Stream
}

// NewCache returns an empty per-SSRC Cache.
func NewCache() *Cache {
	return &Cache{streams: map[uint32]*Stream{}}
}

// Stream returns the Stream for ssrc, creating one if this is the first
// time it's been seen.
func (c *Cache) Stream(ssrc uint32) *Stream {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.streams[ssrc]
	if !ok {
		s = NewStream()
		c.streams[ssrc] = s
	}
	return s
}

// Remove drops all cached state for ssrc, e.g. once a track is no longer
// being received.
func (c *Cache) Remove(ssrc uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.streams, ssrc)
}

// Parse is shorthand for c.Stream(ssrc).Parse(seq, buf).
func (c *Cache) Parse(ssrc uint32, seq uint16, buf []byte) (*dependencydescriptor.ParsedDescriptor, error) {
	return c.Stream(ssrc).Parse(seq, buf)
}
