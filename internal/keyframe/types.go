// Package keyframe provides the data structures for animated transform channels
// and a parser for exported armature animation clips.
// A channel is one scalar stream (one axis of location, one Euler axis, one
// quaternion component or one scale axis) belonging to one entity (a bone or
// an object), made of (time, value) samples.
package keyframe

import (
	"fmt"
	"sort"
	"strings"
)

// ChannelKind identifies which transform component a channel animates.
type ChannelKind int

const (
	LocationX ChannelKind = iota
	LocationY
	LocationZ
	RotationEulerX
	RotationEulerY
	RotationEulerZ
	RotationQuaternionW
	RotationQuaternionX
	RotationQuaternionY
	RotationQuaternionZ
	ScaleX
	ScaleY
	ScaleZ

	numChannelKinds
)

// Property groups. A group is the native vector property that the scalar
// channels are reassembled into before being written back to the host.
const (
	GroupLocation           = "location"
	GroupRotationEuler      = "rotation_euler"
	GroupRotationQuaternion = "rotation_quaternion"
	GroupScale              = "scale"
)

var kindNames = [numChannelKinds]string{
	"location_x",
	"location_y",
	"location_z",
	"rotation_euler_x",
	"rotation_euler_y",
	"rotation_euler_z",
	"rotation_quaternion_w",
	"rotation_quaternion_x",
	"rotation_quaternion_y",
	"rotation_quaternion_z",
	"scale_x",
	"scale_y",
	"scale_z",
}

// groupKinds lists the kinds of each group in component order.
var groupKinds = map[string][]ChannelKind{
	GroupLocation:           {LocationX, LocationY, LocationZ},
	GroupRotationEuler:      {RotationEulerX, RotationEulerY, RotationEulerZ},
	GroupRotationQuaternion: {RotationQuaternionW, RotationQuaternionX, RotationQuaternionY, RotationQuaternionZ},
	GroupScale:              {ScaleX, ScaleY, ScaleZ},
}

// AllKinds returns every channel kind in declaration order.
func AllKinds() []ChannelKind {
	kinds := make([]ChannelKind, 0, numChannelKinds)
	for k := ChannelKind(0); k < numChannelKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds.
func (k ChannelKind) Valid() bool {
	return k >= 0 && k < numChannelKinds
}

// String returns the snake_case name used in config files, the CLI and on the wire.
func (k ChannelKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ChannelKind(%d)", int(k))
	}
	return kindNames[k]
}

// Group returns the property group of k and the component index inside it.
func (k ChannelKind) Group() (string, int) {
	switch {
	case k >= LocationX && k <= LocationZ:
		return GroupLocation, int(k - LocationX)
	case k >= RotationEulerX && k <= RotationEulerZ:
		return GroupRotationEuler, int(k - RotationEulerX)
	case k >= RotationQuaternionW && k <= RotationQuaternionZ:
		return GroupRotationQuaternion, int(k - RotationQuaternionW)
	case k >= ScaleX && k <= ScaleZ:
		return GroupScale, int(k - ScaleX)
	}
	return "", -1
}

// MarshalText implements encoding.TextMarshaler.
func (k ChannelKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid channel kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ChannelKind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a channel kind name. Matching is case-insensitive and
// accepts both "rotation_euler_x" and "ROTATION_EULER_X".
func ParseKind(name string) (ChannelKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, kn := range kindNames {
		if kn == n {
			return ChannelKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown channel kind '%s'", name)
}

// ParseKinds parses a list of channel kind or group names. A group name
// ("location", "rotation_euler", "rotation_quaternion", "scale") expands to
// all of its components. Duplicates are dropped, first occurrence wins.
func ParseKinds(names []string) ([]ChannelKind, error) {
	seen := make(map[ChannelKind]bool)
	var kinds []ChannelKind
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		expanded, ok := groupKinds[n]
		if !ok {
			k, err := ParseKind(n)
			if err != nil {
				return nil, err
			}
			expanded = []ChannelKind{k}
		}
		for _, k := range expanded {
			if !seen[k] {
				seen[k] = true
				kinds = append(kinds, k)
			}
		}
	}
	return kinds, nil
}

// KindsForGroup returns the kinds of a property group in component order,
// or nil for an unknown group.
func KindsForGroup(group string) []ChannelKind {
	kinds, ok := groupKinds[group]
	if !ok {
		return nil
	}
	out := make([]ChannelKind, len(kinds))
	copy(out, kinds)
	return out
}

// Sample is one keyframe: a value recorded at a frame time.
type Sample struct {
	// Time is the frame number. Fractional frames are allowed.
	Time float64 `json:"time" yaml:"time"`

	// Value is the channel value at Time.
	Value float64 `json:"value" yaml:"value"`
}

// Channel is one scalar animated stream of an entity.
//
// Samples are kept in the order they were added and are NOT assumed sorted.
// Times are expected to be unique; when they are not, the sample seen last
// for a given time wins (see Sorted).
type Channel struct {
	// Entity is the owning bone or object name, e.g., "Arm"
	Entity string `json:"entity" yaml:"entity"`

	// Kind is the transform component this channel animates
	Kind ChannelKind `json:"kind" yaml:"kind"`

	// Samples are the keyframes of this channel
	Samples []Sample `json:"samples" yaml:"samples"`
}

// Sorted returns a copy of the samples ordered by ascending time with
// duplicate times collapsed to the last-seen sample. The channel itself is
// not modified.
func (c Channel) Sorted() []Sample {
	if len(c.Samples) == 0 {
		return nil
	}

	byTime := make(map[float64]int, len(c.Samples))
	out := make([]Sample, 0, len(c.Samples))
	for _, s := range c.Samples {
		if i, dup := byTime[s.Time]; dup {
			out[i] = s
			continue
		}
		byTime[s.Time] = len(out)
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Len returns the number of samples.
func (c Channel) Len() int {
	return len(c.Samples)
}

// SetSample inserts a sample at time t, or replaces the value of an existing
// sample at exactly t. This is the keyframe-recording path used by callers;
// the tween engine itself never calls it.
func (c *Channel) SetSample(t, value float64) {
	for i := range c.Samples {
		if c.Samples[i].Time == t {
			c.Samples[i].Value = value
			return
		}
	}
	c.Samples = append(c.Samples, Sample{Time: t, Value: value})
}
