// SPDX-License-Identifier: EPL-2.0

// Package capture records encoded audio from a local input or a shared
// system source.
//
// A Recorder asks a Device for a Stream, collects its chunks until the user
// stops or the source ends on its own, and hands back the bytes as a
// Recording. The bytes are whatever container the device produces; decode
// them with an audio.Registry.
//
//	rec := capture.NewRecorder(dev, capture.WithTick(time.Second, show))
//	if err := rec.Start(ctx, capture.ModeShared); err != nil {
//		return err
//	}
//	...
//	rec.Stop()
//	out, err := rec.Result()
package capture
