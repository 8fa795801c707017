package audio

import "testing"

func TestNewMicrophoneDefaults(t *testing.T) {
	m := NewMicrophone(0, 0)
	if m.SampleRate() != DefaultSampleRate {
		t.Fatalf("sample rate = %d, want %d", m.SampleRate(), DefaultSampleRate)
	}
	if m.frameSize != DefaultSampleRate/20 {
		t.Fatalf("frame size = %d, want %d", m.frameSize, DefaultSampleRate/20)
	}
}

func TestMicrophoneNotOpen(t *testing.T) {
	m := NewMicrophone(16000, 800)
	if err := m.Read(make([]int16, 800)); err == nil {
		t.Fatal("expected error reading from a closed microphone")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("closing an unopened microphone: %v", err)
	}
}
