// SPDX-License-Identifier: EPL-2.0

package library

import "errors"

var (
	ErrNotFound      = errors.New("track not found")
	ErrEmptyData     = errors.New("track has no audio data")
	ErrInvalidSource = errors.New("unknown track source")
	ErrNoStorage     = errors.New("library dir is required for on-disk mode")
)
