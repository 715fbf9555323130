// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/session"
)

// headlessWaveform stands in for a waveform view. It answers every Load
// with a Ready event carrying the decoded duration.
type headlessWaveform struct {
	reg    *audio.Registry
	events chan session.Event
}

func newHeadlessWaveform(reg *audio.Registry) *headlessWaveform {
	return &headlessWaveform{reg: reg, events: make(chan session.Event, 8)}
}

func (w *headlessWaveform) Load(data []byte) error {
	buf, err := w.reg.Decode(data)
	if err != nil {
		return err
	}

	w.events <- session.Ready{Duration: buf.Duration()}
	return nil
}

func (w *headlessWaveform) PlayPause() error   { return nil }
func (w *headlessWaveform) Stop() error        { return nil }
func (w *headlessWaveform) Seek(float64) error { return nil }
