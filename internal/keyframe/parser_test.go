package keyframe

import (
	"strings"
	"testing"
)

// TestParseClipFile_Success tests parsing the arm clip fixture
func TestParseClipFile_Success(t *testing.T) {
	clip, err := ParseClipFile("testdata/arm_clip.json")
	if err != nil {
		t.Fatalf("Failed to parse arm_clip.json: %v", err)
	}

	if clip.Armature != "Rig" || clip.Action != "ArmWave" {
		t.Errorf("Unexpected header: armature=%s action=%s", clip.Armature, clip.Action)
	}
	if clip.FrameRange != [2]int{1, 10} {
		t.Errorf("Expected frame range [1 10], got %v", clip.FrameRange)
	}

	names := clip.BoneNames()
	if len(names) != 2 || names[0] != "Arm" || names[1] != "Hand" {
		t.Errorf("Expected bones [Arm Hand], got %v", names)
	}
}

// TestParseClipFile_Errors tests error handling scenarios
func TestParseClipFile_Errors(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		expectError string
	}{
		{
			name:        "File not found",
			path:        "testdata/missing.json",
			expectError: "failed to read clip file",
		},
		{
			name:        "Wrong vector length",
			path:        "testdata/bad_vector.json",
			expectError: "expected 3 components, got 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClipFile(tt.path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("Expected error containing '%s', got: %v", tt.expectError, err)
			}
		})
	}
}

// TestParseClip_InvalidJSON tests malformed input
func TestParseClip_InvalidJSON(t *testing.T) {
	if _, err := ParseClip([]byte("{not json")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

// TestClip_Channels_Euler tests Euler bones import Euler rotation channels
func TestClip_Channels_Euler(t *testing.T) {
	clip, err := ParseClipFile("testdata/arm_clip.json")
	if err != nil {
		t.Fatalf("Failed to parse clip: %v", err)
	}

	channels, err := clip.Channels("Arm", 0)
	if err != nil {
		t.Fatalf("Channels failed: %v", err)
	}

	// location(3) + rotation_euler(3) + scale(3)
	if len(channels) != 9 {
		t.Fatalf("Expected 9 channels, got %d", len(channels))
	}

	var rotX *Channel
	for i := range channels {
		if group, _ := channels[i].Kind.Group(); group == GroupRotationQuaternion {
			t.Errorf("Euler bone should not import %v", channels[i].Kind)
		}
		if channels[i].Kind == RotationEulerX {
			rotX = &channels[i]
		}
	}
	if rotX == nil {
		t.Fatal("rotation_euler_x channel missing")
	}
	if rotX.Entity != "Arm" {
		t.Errorf("Expected entity Arm, got %s", rotX.Entity)
	}
	want := []Sample{{1, 0.0}, {10, 1.57}}
	for i := range want {
		if rotX.Samples[i] != want[i] {
			t.Errorf("sample[%d] = %+v, want %+v", i, rotX.Samples[i], want[i])
		}
	}
}

// TestClip_Channels_QuaternionWithOffset tests quaternion import and frame offset
func TestClip_Channels_QuaternionWithOffset(t *testing.T) {
	clip, err := ParseClipFile("testdata/arm_clip.json")
	if err != nil {
		t.Fatalf("Failed to parse clip: %v", err)
	}

	channels, err := clip.Channels("Hand", 100)
	if err != nil {
		t.Fatalf("Channels failed: %v", err)
	}

	// Hand 没有 location/scale，只有四元数通道
	if len(channels) != 4 {
		t.Fatalf("Expected 4 quaternion channels, got %d", len(channels))
	}
	if channels[0].Kind != RotationQuaternionW {
		t.Errorf("Expected first channel W, got %v", channels[0].Kind)
	}
	if channels[0].Samples[0].Time != 104 {
		t.Errorf("Expected frame 104 after offset, got %v", channels[0].Samples[0].Time)
	}

	if _, err := clip.Channels("Leg", 0); err == nil {
		t.Error("Expected error for missing bone")
	}
}
