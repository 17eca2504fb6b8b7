// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ddselector

import "github.com/pion/logging"

// ForwarderInterceptorOption can be used to configure ForwarderInterceptor.
type ForwarderInterceptorOption func(f *ForwarderInterceptor) error

// WithExtensionID sets the RTP extension header ID the Dependency
// Descriptor extension is registered under for the negotiated session.
// Required; a ForwarderInterceptor with no extension ID set is a no-op.
func WithExtensionID(id int) ForwarderInterceptorOption {
	return func(f *ForwarderInterceptor) error {
		f.extensionID = id
		return nil
	}
}

// WithTargetLayer sets the initial Decode Target ceiling every new stream
// starts with.
func WithTargetLayer(target TargetLayer) ForwarderInterceptorOption {
	return func(f *ForwarderInterceptor) error {
		f.target = target
		return nil
	}
}

// WithLog sets a logger for the interceptor.
func WithLog(log logging.LeveledLogger) ForwarderInterceptorOption {
	return func(f *ForwarderInterceptor) error {
		f.log = log
		return nil
	}
}

// WithLoggerFactory sets a logger factory for the interceptor.
func WithLoggerFactory(loggerFactory logging.LoggerFactory) ForwarderInterceptorOption {
	return func(f *ForwarderInterceptor) error {
		f.loggerFactory = loggerFactory
		return nil
	}
}
