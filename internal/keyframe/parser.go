package keyframe

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// RotationModeQuaternion is the rotation mode whose bones are animated through
// quaternion channels. Every other mode ("XYZ", "ZXY", ...) uses Euler channels.
const RotationModeQuaternion = "QUATERNION"

// Clip is an exported armature animation. It is the JSON document written by
// the animation-transfer export tool: one entry per animated bone, with the
// full transform sampled at every frame where any of the bone's curves has a
// keyframe.
type Clip struct {
	// Armature is the source armature object name
	Armature string `json:"armature"`

	// Action is the source action name
	Action string `json:"action"`

	// FrameRange is [first, last] keyframe frame across all bones
	FrameRange [2]int `json:"frame_range"`

	// Bones maps bone names to their sampled keyframes
	Bones map[string]BoneClip `json:"bones"`
}

// BoneClip holds the sampled keyframes of one bone.
type BoneClip struct {
	// RotationMode is the bone's rotation mode, e.g., "QUATERNION" or "XYZ"
	RotationMode string `json:"rotation_mode"`

	// Keyframes are the transform snapshots, sorted by frame on export
	Keyframes []BoneKeyframe `json:"keyframes"`
}

// BoneKeyframe is a full transform snapshot at one frame. Location and Scale
// are optional; an absent vector leaves those channels without a sample at
// this frame.
type BoneKeyframe struct {
	Frame              int       `json:"frame"`
	Location           []float64 `json:"location,omitempty"`
	RotationEuler      []float64 `json:"rotation_euler,omitempty"`
	RotationQuaternion []float64 `json:"rotation_quaternion,omitempty"`
	Scale              []float64 `json:"scale,omitempty"`
}

// ParseClipFile reads and parses an exported clip file.
//
// Parameters:
//   - path: Path to the clip JSON file, e.g., "data/clips/walk.json"
//
// Returns:
//   - *Clip: The parsed clip
//   - error: Read or parse error, or nil if successful
func ParseClipFile(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip file '%s': %w", path, err)
	}

	clip, err := ParseClip(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse clip '%s': %w", path, err)
	}
	return clip, nil
}

// ParseClip parses clip JSON and validates vector lengths.
func ParseClip(data []byte) (*Clip, error) {
	var clip Clip
	if err := json.Unmarshal(data, &clip); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	for name, bone := range clip.Bones {
		for i, kf := range bone.Keyframes {
			if err := checkLen(kf.Location, 3); err != nil {
				return nil, fmt.Errorf("bone '%s' keyframe #%d location: %w", name, i, err)
			}
			if err := checkLen(kf.RotationEuler, 3); err != nil {
				return nil, fmt.Errorf("bone '%s' keyframe #%d rotation_euler: %w", name, i, err)
			}
			if err := checkLen(kf.RotationQuaternion, 4); err != nil {
				return nil, fmt.Errorf("bone '%s' keyframe #%d rotation_quaternion: %w", name, i, err)
			}
			if err := checkLen(kf.Scale, 3); err != nil {
				return nil, fmt.Errorf("bone '%s' keyframe #%d scale: %w", name, i, err)
			}
		}
	}

	return &clip, nil
}

func checkLen(v []float64, want int) error {
	if v != nil && len(v) != want {
		return fmt.Errorf("expected %d components, got %d", want, len(v))
	}
	return nil
}

// BoneNames returns the clip's bone names in sorted order.
func (c *Clip) BoneNames() []string {
	names := make([]string, 0, len(c.Bones))
	for name := range c.Bones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Channels converts one bone of the clip into scalar channels, shifting every
// keyframe by frameOffset. Rotation is imported the way the bone's rotation
// mode dictates: quaternion channels for "QUATERNION", Euler channels
// otherwise. Channels without any sample are not returned.
func (c *Clip) Channels(bone string, frameOffset int) ([]Channel, error) {
	bc, ok := c.Bones[bone]
	if !ok {
		return nil, fmt.Errorf("bone '%s' not found in clip", bone)
	}

	byKind := make(map[ChannelKind]*Channel)
	add := func(group string, values []float64, frame float64) {
		for i, kind := range groupKinds[group] {
			if i >= len(values) {
				return
			}
			ch, ok := byKind[kind]
			if !ok {
				ch = &Channel{Entity: bone, Kind: kind}
				byKind[kind] = ch
			}
			ch.Samples = append(ch.Samples, Sample{Time: frame, Value: values[i]})
		}
	}

	for _, kf := range bc.Keyframes {
		frame := float64(kf.Frame + frameOffset)
		add(GroupLocation, kf.Location, frame)
		if bc.RotationMode == RotationModeQuaternion {
			add(GroupRotationQuaternion, kf.RotationQuaternion, frame)
		} else {
			add(GroupRotationEuler, kf.RotationEuler, frame)
		}
		add(GroupScale, kf.Scale, frame)
	}

	channels := make([]Channel, 0, len(byKind))
	for _, kind := range AllKinds() {
		if ch, ok := byKind[kind]; ok {
			channels = append(channels, *ch)
		}
	}
	return channels, nil
}
