// SPDX-License-Identifier: EPL-2.0

package session

import "errors"

var (
	ErrInvalidConfig  = errors.New("session needs a registry and a waveform")
	ErrNotReady       = errors.New("session is still loading")
	ErrEditInProgress = errors.New("an edit is still being applied")
	ErrUnknownEdit    = errors.New("unknown edit operation")
	ErrClosed         = errors.New("session is closed")
	ErrEventsClosed   = errors.New("event channel closed")
)
