// SPDX-License-Identifier: EPL-2.0

// Package audibites records, trims and exports short audio clips.
//
// The work is split across subpackages:
//   - audio holds the immutable PCM Buffer, the decoder Registry and
//     buffer conversions (Resample, Mixdown)
//   - formats/* decode WAV, AIFF, FLAC, Ogg Vorbis and MP3 into audio.Source
//   - formats/wav also encodes a Buffer as canonical 16-bit PCM WAV
//   - edit keeps or removes a time Region of a Buffer
//   - session drives an interactive editing pass against a waveform view
//   - capture records encoded audio from a local or shared source
//   - library stores saved tracks
//
// This package ties them together for the common cases.
//
// # Quick Start
//
//	reg := audibites.DefaultRegistry()
//	buf, err := reg.Decode(data)
//	if err != nil {
//		return err
//	}
//
//	clip := edit.Keep(buf, edit.Region{Start: 1.5, End: 4})
//	out, err := audibites.Convert(clip, audibites.ConvertOptions{SampleRate: 16000, Mono: true})
//	if err != nil {
//		return err
//	}
//
//	return wav.WriteBuffer(w, out)
//
// # Time Display
//
// FormatTime and FormatTimePrecise render positions the way the editor
// shows them, "1:05" and "1:05.3".
package audibites
