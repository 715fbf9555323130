// SPDX-License-Identifier: EPL-2.0

package session

// Waveform is the display and playback collaborator. Load replaces the
// audio it shows; it answers with a Ready event once the new audio is
// decoded, possibly before Load returns.
type Waveform interface {
	Load(data []byte) error
	PlayPause() error
	Stop() error
	Seek(position float64) error
}

// Event is a notification from the waveform collaborator.
type Event interface {
	event()
}

// Ready reports that the waveform finished loading audio of Duration seconds.
type Ready struct {
	Duration float64
}

// TimeUpdate reports the playback position in seconds.
type TimeUpdate struct {
	Position float64
}

// RegionCreated reports a new selection. It replaces any previous one.
type RegionCreated struct {
	Start, End float64
}

// RegionUpdated reports that the selection was dragged or resized.
type RegionUpdated struct {
	Start, End float64
}

func (Ready) event()         {}
func (TimeUpdate) event()    {}
func (RegionCreated) event() {}
func (RegionUpdated) event() {}
