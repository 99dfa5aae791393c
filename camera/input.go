package camera

import (
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Key is a keyboard key the controllers respond to.
type Key uint32

// Keys read by InputFromDevice and the controllers.
const (
	KeyQ Key = 1 << iota
	KeyE
	KeyW
	KeyS
	KeyA
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyLeftShift
	KeySpace
)

var keyNames = map[string]Key{
	"q":         KeyQ,
	"e":         KeyE,
	"w":         KeyW,
	"s":         KeyS,
	"a":         KeyA,
	"d":         KeyD,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"leftshift": KeyLeftShift,
	"shift":     KeyLeftShift,
	"space":     KeySpace,
}

// KeyFromString parses a key name such as "w", "left" or "space", ignoring case.
func KeyFromString(name string) (Key, error) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Errorf("unknown key %q", name)
	}
	return k, nil
}

// Button is a gamepad button.
type Button uint32

// Buttons read by InputFromDevice and the controllers.
const (
	ButtonA Button = 1 << iota
	ButtonLeftShoulder
	ButtonRightShoulder
	ButtonLeftStick
	ButtonRightStick
)

// DeviceState is a snapshot of the gamepad and keyboard for one frame.
type DeviceState struct {
	LeftStick   r2.Point
	RightStick  r2.Point
	LeftTrigger float64
	Buttons     Button
	Keys        Key
}

// Down reports whether every key in k is held.
func (s DeviceState) Down(k Key) bool {
	return s.Keys&k == k
}

// Pressed reports whether every button in b is held.
func (s DeviceState) Pressed(b Button) bool {
	return s.Buttons&b == b
}

// keyRotateRate is the rotation input produced by a held key or shoulder button.
const keyRotateRate = 0.7

// inputDeadZone zeroes rotation inputs too small to be intentional.
const inputDeadZone = 1e-5

// Input is the movement request of one frame in camera space. Translate X strafes right and Z
// moves forward. Rotate X pitches, Y yaws and Z rolls.
type Input struct {
	Translate r3.Vector
	Rotate    r3.Vector
}

// InputFromDevice combines the thumbsticks, shoulder buttons and keys into an Input.
func InputFromDevice(s DeviceState) Input {
	var in Input

	in.Translate.X = s.LeftStick.X + keyAxis(s, KeyE, KeyQ, 1)
	in.Translate.Z = s.LeftStick.Y + keyAxis(s, KeyW, KeyS, 1)

	in.Rotate.X = s.RightStick.Y + keyAxis(s, KeyUp, KeyDown, keyRotateRate)
	in.Rotate.Y = s.RightStick.X + keyAxis(s, KeyRight, KeyLeft, keyRotateRate)
	if s.Pressed(ButtonLeftShoulder) || s.Down(KeyA) {
		in.Rotate.Z += keyRotateRate
	}
	if s.Pressed(ButtonRightShoulder) || s.Down(KeyD) {
		in.Rotate.Z -= keyRotateRate
	}

	in.Rotate.X = deadZone(in.Rotate.X)
	in.Rotate.Y = deadZone(in.Rotate.Y)
	in.Rotate.Z = deadZone(in.Rotate.Z)
	return in
}

func keyAxis(s DeviceState, positive, negative Key, rate float64) float64 {
	v := 0.0
	if s.Down(positive) {
		v += rate
	}
	if s.Down(negative) {
		v -= rate
	}
	return v
}

func deadZone(v float64) float64 {
	if math.Abs(v) < inputDeadZone {
		return 0
	}
	return v
}
