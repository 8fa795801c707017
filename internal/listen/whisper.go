package listen

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// WhisperRecognizer transcribes clips with the OpenAI transcription API.
type WhisperRecognizer struct {
	client *openai.Client
	model  string
}

// NewWhisperRecognizer creates a recognizer using the whisper-1 model.
func NewWhisperRecognizer(client *openai.Client) *WhisperRecognizer {
	return &WhisperRecognizer{client: client, model: openai.Whisper1}
}

func (w *WhisperRecognizer) Transcribe(ctx context.Context, clip Clip, language string) (string, error) {
	if len(clip.Samples) == 0 {
		return "", ErrUnintelligible
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: "phrase.wav",
		Reader:   bytes.NewReader(encodeWAV(clip)),
		Language: isoLanguage(language),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

// isoLanguage reduces a locale such as "en-US" to the ISO-639-1 code the
// transcription endpoint expects.
func isoLanguage(locale string) string {
	lang, _, _ := strings.Cut(locale, "-")
	lang, _, _ = strings.Cut(lang, "_")
	return strings.ToLower(lang)
}

// encodeWAV wraps 16-bit mono PCM in a RIFF/WAVE container.
func encodeWAV(clip Clip) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
		headerSize    = 44
	)
	dataSize := len(clip.Samples) * 2
	blockAlign := channels * bitsPerSample / 8
	byteRate := clip.SampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(headerSize + dataSize)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(clip.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(&buf, binary.LittleEndian, clip.Samples)

	return buf.Bytes()
}
