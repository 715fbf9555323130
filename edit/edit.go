// SPDX-License-Identifier: EPL-2.0

package edit

import "github.com/ik5/audibites/audio"

// Keep returns only the frames inside r (trim). An empty clamped range
// yields one frame of silence.
func Keep(buf *audio.Buffer, r Region) *audio.Buffer {
	start, end := Offsets(buf, r)
	return buf.Slice(start, end)
}

// Remove returns buf with the frames inside r spliced out (cut). Removing
// everything yields one frame of silence per channel.
func Remove(buf *audio.Buffer, r Region) *audio.Buffer {
	start, end := Offsets(buf, r)
	return buf.Without(start, end)
}

// Op names an edit operation.
type Op string

const (
	OpTrim Op = "trim"
	OpCut  Op = "cut"
)

// Apply runs op over buf. Unknown operations return buf unchanged and false.
func Apply(buf *audio.Buffer, op Op, r Region) (*audio.Buffer, bool) {
	switch op {
	case OpTrim:
		return Keep(buf, r), true
	case OpCut:
		return Remove(buf, r), true
	default:
		return buf, false
	}
}
