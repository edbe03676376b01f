package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LocalCommandTranscriber invokes a configured transcription command (for
// example a whisper CLI) as an external process with the audio path appended
// as the last argument. The transcript is read from standard output or,
// failing that, from a conventionally named text file in the configured
// output directory.
type LocalCommandTranscriber struct {
	// command is the full command line; empty disables the strategy.
	command string

	// outputDir is where the command may write transcript files instead of
	// printing to stdout. Optional.
	outputDir string

	logger *slog.Logger
}

// NewLocalCommandTranscriber creates the local command strategy.
func NewLocalCommandTranscriber(command, outputDir string, logger *slog.Logger) *LocalCommandTranscriber {
	return &LocalCommandTranscriber{
		command:   command,
		outputDir: outputDir,
		logger:    logger.With("component", "local_transcriber"),
	}
}

// Transcribe runs the configured command against the audio file.
func (t *LocalCommandTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if strings.TrimSpace(t.command) == "" {
		return "", ErrLocalDisabled
	}

	argv := strings.Fields(t.command)
	argv = append(argv, audioPath)

	t.logger.Debug("running local transcription command",
		"command", argv[0],
		"audio_path", audioPath)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("transcription command failed: exit code %d, stderr: %s",
				exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("transcription command failed: %w", err)
	}

	if transcript := strings.TrimSpace(string(output)); usable(transcript) {
		t.logger.Debug("transcript read from stdout", "transcript_length", len(transcript))
		return transcript, nil
	}

	// Some CLIs write a transcript file instead of printing it.
	if transcript, ok := t.readOutputFile(audioPath); ok {
		return transcript, nil
	}

	return "", ErrNoUsableOutput
}

// readOutputFile tries the conventional transcript file names for the audio
// artifact in the configured output directory.
func (t *LocalCommandTranscriber) readOutputFile(audioPath string) (string, bool) {
	if t.outputDir == "" {
		return "", false
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	candidates := []string{
		filepath.Join(t.outputDir, base+".txt"),
		filepath.Join(t.outputDir, base+".trans.txt"),
		filepath.Join(t.outputDir, base+"_transcript.txt"),
	}

	for _, candidate := range candidates {
		content, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		if transcript := strings.TrimSpace(string(content)); transcript != "" {
			t.logger.Debug("transcript read from output file", "path", candidate)
			return transcript, true
		}
	}

	return "", false
}

var _ Transcriber = (*LocalCommandTranscriber)(nil)
