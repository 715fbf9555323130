// SPDX-License-Identifier: EPL-2.0

package edit

import "errors"

// ErrInvalidRegion is returned by Region.Validate. Keep and Remove never
// return it; they clamp instead.
var ErrInvalidRegion = errors.New("invalid region")
