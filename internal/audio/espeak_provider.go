package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// ESpeakProvider implements Provider interface for espeak-ng. It is the
// offline alternative when no OpenAI key is available or the TTS service is
// down.
type ESpeakProvider struct {
	espeak *ESpeak
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig) (Provider, error) {
	espeak, err := NewESpeak(config)
	if err != nil {
		return nil, err
	}

	return &ESpeakProvider{espeak: espeak}, nil
}

// GenerateAudio generates audio using espeak-ng
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	ext := strings.ToLower(filepath.Ext(outputFile))

	var err error
	switch ext {
	case ".wav":
		err = p.espeak.GenerateWAV(text, outputFile)
	case ".mp3":
		err = p.espeak.GenerateMP3(text, outputFile)
	default:
		if !strings.HasSuffix(outputFile, ".mp3") {
			outputFile += ".mp3"
		}
		err = p.espeak.GenerateMP3(text, outputFile)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	return nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}
