package sim

import (
	"github.com/pkg/errors"

	"go.viam.com/boxcollider/camera"
)

// Input supplies the device state for each frame.
type Input interface {
	State(frame int) camera.DeviceState
}

// InputFunc adapts a function to Input.
type InputFunc func(frame int) camera.DeviceState

// State implements Input.
func (f InputFunc) State(frame int) camera.DeviceState {
	return f(frame)
}

// Idle is an Input that never touches the controls.
var Idle = InputFunc(func(int) camera.DeviceState { return camera.DeviceState{} })

// Segment holds keys for a number of frames.
type Segment struct {
	Frames int      `json:"frames"`
	Keys   []string `json:"keys"`
}

// Script plays segments back to back and is idle once they run out.
type Script struct {
	states []camera.DeviceState
	frames []int
}

// NewScript parses the key names of every segment.
func NewScript(segments []Segment) (*Script, error) {
	s := &Script{}
	for i, seg := range segments {
		if seg.Frames < 0 {
			return nil, errors.Errorf("segment %d has negative frames %d", i, seg.Frames)
		}
		var state camera.DeviceState
		for _, name := range seg.Keys {
			k, err := camera.KeyFromString(name)
			if err != nil {
				return nil, errors.Wrapf(err, "segment %d", i)
			}
			state.Keys |= k
		}
		s.states = append(s.states, state)
		s.frames = append(s.frames, seg.Frames)
	}
	return s, nil
}

// Len returns the number of scripted frames.
func (s *Script) Len() int {
	total := 0
	for _, n := range s.frames {
		total += n
	}
	return total
}

// State implements Input.
func (s *Script) State(frame int) camera.DeviceState {
	for i, n := range s.frames {
		if frame < n {
			return s.states[i]
		}
		frame -= n
	}
	return camera.DeviceState{}
}
