// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ddselector

import (
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/logging"
	"github.com/pion/rtp"

	"github.com/pion-community/dependencydescriptor/pkg/ddcache"
	"github.com/pion-community/dependencydescriptor/pkg/dependencydescriptor"
)

// ForwarderInterceptorFactory is an interceptor.Factory for ForwarderInterceptor.
type ForwarderInterceptorFactory struct {
	opts []ForwarderInterceptorOption
}

// NewForwarderInterceptor returns a new ForwarderInterceptorFactory.
func NewForwarderInterceptor(opts ...ForwarderInterceptorOption) (*ForwarderInterceptorFactory, error) {
	return &ForwarderInterceptorFactory{opts: opts}, nil
}

// NewInterceptor constructs a new ForwarderInterceptor.
func (f *ForwarderInterceptorFactory) NewInterceptor(_ string) (interceptor.Interceptor, error) {
	fwd := &ForwarderInterceptor{
		streams: make(map[uint32]*forwarderStreamState),
		target:  TargetLayer{SpatialId: ^dependencydescriptor.SpatialId(0), TemporalId: ^dependencydescriptor.TemporalId(0)},
	}

	for _, opt := range f.opts {
		if err := opt(fwd); err != nil {
			return nil, err
		}
	}

	if fwd.loggerFactory == nil {
		fwd.loggerFactory = logging.NewDefaultLoggerFactory()
	}
	if fwd.log == nil {
		fwd.log = fwd.loggerFactory.NewLogger("ddselector")
	}

	return fwd, nil
}

type forwarderStreamState struct {
	cache    *ddcache.Stream
	selector *Selector
}

// ForwarderInterceptor selects, for every outgoing RTP packet on a video
// stream carrying the Dependency Descriptor extension, whether the current
// Decode Target ceiling wants this frame forwarded, dropping the packets of
// frames it doesn't.
//
// Reference: pkg/videoframe ReceiverInterceptor (per-SSRC state behind a
// mutex, interceptor.NoOp embedding, lazily-initialized per-stream state).
type ForwarderInterceptor struct {
	interceptor.NoOp

	extensionID int
	target      TargetLayer

	streams   map[uint32]*forwarderStreamState
	streamsMu sync.Mutex

	log           logging.LeveledLogger
	loggerFactory logging.LoggerFactory
}

// BindLocalStream intercepts outgoing packets to decide, per frame, whether
// to forward them.
func (f *ForwarderInterceptor) BindLocalStream(info *interceptor.StreamInfo, writer interceptor.RTPWriter) interceptor.RTPWriter {
	if f.extensionID == 0 {
		return writer
	}

	ssrc := info.SSRC

	f.streamsMu.Lock()
	state, ok := f.streams[ssrc]
	if !ok {
		state = &forwarderStreamState{
			cache:    ddcache.NewStream(),
			selector: NewSelector(f.target),
		}
		f.streams[ssrc] = state
	}
	f.streamsMu.Unlock()

	return interceptor.RTPWriterFunc(func(header *rtp.Header, payload []byte, attrs interceptor.Attributes) (int, error) {
		raw := header.GetExtension(uint8(f.extensionID))
		if raw == nil {
			return writer.Write(header, payload, attrs)
		}

		f.streamsMu.Lock()
		parsed, err := state.cache.Parse(header.SequenceNumber, raw)
		if err != nil {
			f.streamsMu.Unlock()
			f.log.Debugf("dropping packet with unparseable dependency descriptor: %v", err)
			return len(payload), nil
		}
		decision := state.selector.Select(parsed)
		f.streamsMu.Unlock()

		if !decision.Forward {
			return len(payload), nil
		}

		return writer.Write(header, payload, attrs)
	})
}

// UnbindLocalStream drops cached state for a stream once it's removed.
func (f *ForwarderInterceptor) UnbindLocalStream(info *interceptor.StreamInfo) {
	f.streamsMu.Lock()
	defer f.streamsMu.Unlock()
	delete(f.streams, info.SSRC)
}

// Close clears all stream state.
func (f *ForwarderInterceptor) Close() error {
	f.streamsMu.Lock()
	defer f.streamsMu.Unlock()
	f.streams = make(map[uint32]*forwarderStreamState)
	return nil
}
