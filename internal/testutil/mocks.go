package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avoelk/wortkarten/internal/enrich"
)

// MockEnricher mocks the vocabulary enrichment service
type MockEnricher struct {
	Records map[string]*enrich.Record
	Errors  map[string]error
	Calls   []string
}

// Enrich returns a canned record for the word, or an error if one is
// registered. Unknown words get a minimal record derived from the input.
func (m *MockEnricher) Enrich(ctx context.Context, word string, exampleCount int) (*enrich.Record, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("Enrich: %s (examples=%d)", word, exampleCount))

	if err, ok := m.Errors[word]; ok {
		return nil, err
	}

	if rec, ok := m.Records[word]; ok {
		return rec, nil
	}

	// Default response
	return &enrich.Record{
		German:   word,
		English:  fmt.Sprintf("mock translation of %s", word),
		WordType: enrich.WordTypeOther,
		Examples: []enrich.Example{
			{German: fmt.Sprintf("Das Wort '%s' ist nützlich.", word), English: fmt.Sprintf("The word '%s' is useful.", word)},
		},
	}, nil
}

// MockSpeechProvider mocks a text-to-speech provider
type MockSpeechProvider struct {
	Errors    map[string]error // keyed by text
	Calls     []string
	Available bool
	AudioData []byte
}

// NewMockSpeechProvider creates an available provider that writes a small
// fake MP3 payload for every request.
func NewMockSpeechProvider() *MockSpeechProvider {
	return &MockSpeechProvider{
		Available: true,
		AudioData: GenerateAudioData(),
	}
}

// GenerateAudio writes mock audio data to the output file
func (m *MockSpeechProvider) GenerateAudio(ctx context.Context, text, outputFile string) error {
	m.Calls = append(m.Calls, fmt.Sprintf("TTS: %s -> %s", text, filepath.Base(outputFile)))

	if err, ok := m.Errors[text]; ok {
		return err
	}

	return os.WriteFile(outputFile, m.AudioData, 0644)
}

// Name returns the provider name
func (m *MockSpeechProvider) Name() string {
	return "mock"
}

// IsAvailable reports the configured availability
func (m *MockSpeechProvider) IsAvailable() error {
	if !m.Available {
		return fmt.Errorf("mock provider unavailable")
	}
	return nil
}

// NounRecord builds a complete noun record for tests
func NounRecord(german, article, plural, english string, examples ...enrich.Example) *enrich.Record {
	return &enrich.Record{
		German:   german,
		English:  english,
		WordType: enrich.WordTypeNoun,
		Grammar: enrich.Grammar{
			Article: article,
			Plural:  plural,
		},
		Examples: examples,
	}
}

// GenerateAudioData generates mock audio data
func GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
