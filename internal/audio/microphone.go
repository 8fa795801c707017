// Package audio provides microphone capture through PortAudio.
package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// DefaultSampleRate is the capture rate used for speech.
const DefaultSampleRate = 16000

// Microphone reads mono int16 samples from the default input device.
// Open and Close bracket one capture; PortAudio is initialized for the
// lifetime of each capture only.
type Microphone struct {
	sampleRate int
	frameSize  int

	mu     sync.Mutex
	stream *portaudio.Stream
	buf    []int16
}

// NewMicrophone creates a microphone that delivers frames of frameSize
// samples.
func NewMicrophone(sampleRate, frameSize int) *Microphone {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if frameSize <= 0 {
		frameSize = sampleRate / 20
	}
	return &Microphone{sampleRate: sampleRate, frameSize: frameSize}
}

func (m *Microphone) SampleRate() int {
	return m.sampleRate
}

// Open initializes PortAudio and starts the input stream.
func (m *Microphone) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream != nil {
		return fmt.Errorf("microphone already open")
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize audio: %w", err)
	}

	m.buf = make([]int16, m.frameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), len(m.buf), m.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}
	m.stream = stream
	return nil
}

// Read blocks until the next frame is captured and copies it into buf.
// Frames longer than buf are truncated; shorter buffers read repeatedly.
func (m *Microphone) Read(buf []int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return fmt.Errorf("microphone not open")
	}
	for filled := 0; filled < len(buf); {
		if err := m.stream.Read(); err != nil && err != portaudio.InputOverflowed {
			return fmt.Errorf("read input stream: %w", err)
		}
		filled += copy(buf[filled:], m.buf)
	}
	return nil
}

// Close stops the stream and releases PortAudio.
func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return nil
	}
	stopErr := m.stream.Stop()
	closeErr := m.stream.Close()
	m.stream = nil
	termErr := portaudio.Terminate()

	for _, err := range []error{stopErr, closeErr, termErr} {
		if err != nil {
			return fmt.Errorf("close microphone: %w", err)
		}
	}
	return nil
}
