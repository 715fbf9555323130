// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrInvalidStreamInfo indicates a STREAMINFO block without sample rate or channels
	ErrInvalidStreamInfo = errors.New("flac stream info has no sample rate or channels")

	// ErrMissingSubframe indicates a frame carrying fewer channels than announced
	ErrMissingSubframe = errors.New("flac frame has fewer subframes than channels")
)
