package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"github.com/speakspace/speakspace-api/internal/config"
	"github.com/speakspace/speakspace-api/internal/extract"
	"github.com/speakspace/speakspace-api/internal/transcribe"
)

// transcribeInstruction constrains the multimodal call to transcript text
// only.
const transcribeInstruction = "Transcribe the above audio and return ONLY the plaintext transcript."

// AudioTranscriber implements transcribe.Transcriber by sending the audio
// bytes to a multimodal Gemini model. It is the remote fallback behind the
// local command strategy.
type AudioTranscriber struct {
	client *genai.Client
	config config.LLMConfig
	logger *slog.Logger
}

// NewAudioTranscriber creates the remote transcription strategy.
func NewAudioTranscriber(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*AudioTranscriber, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", extract.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", extract.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", extract.ErrInvalidConfig, err)
	}

	return &AudioTranscriber{
		client: client,
		config: cfg,
		logger: logger.With("component", "gemini_transcriber"),
	}, nil
}

// Transcribe uploads the audio bytes inline and returns the plain transcript.
func (t *AudioTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(audioBytes, DetectMime(audioPath)),
		genai.NewPartFromText(transcribeInstruction),
	}, genai.RoleUser)

	resp, err := t.client.Models.GenerateContent(ctx, t.config.ModelName,
		[]*genai.Content{content}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini transcription failed: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text())
	if transcript == "" {
		return "", transcribe.ErrNoUsableOutput
	}

	t.logger.Debug("gemini transcription succeeded",
		"audio_path", audioPath,
		"transcript_length", len(transcript))
	return transcript, nil
}

// DetectMime maps an audio file extension to its MIME type.
func DetectMime(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "wav":
		return "audio/wav"
	case "mp3":
		return "audio/mpeg"
	case "m4a", "aac":
		return "audio/m4a"
	case "ogg":
		return "audio/ogg"
	case "flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}

var _ transcribe.Transcriber = (*AudioTranscriber)(nil)
