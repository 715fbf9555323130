// SPDX-License-Identifier: EPL-2.0

package audibites

import (
	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/formats/aiff"
	"github.com/ik5/audibites/formats/flac"
	"github.com/ik5/audibites/formats/mp3"
	"github.com/ik5/audibites/formats/vorbis"
	"github.com/ik5/audibites/formats/wav"
)

// DefaultRegistry returns a registry with every bundled decoder. MP3 is
// registered last because its frame sync check is the loosest.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("flac", flac.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("mp3", mp3.Decoder{})

	return reg
}
