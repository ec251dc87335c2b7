package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/avoelk/wortkarten/internal"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile         string
	OutputFile      string
	AudioDir        string
	LedgerFile      string
	NoLedger        bool
	DeckName        string
	ExampleCount    int
	ContinueOnError bool
	ListModels      bool
	Archive         bool
	ClearAudioCache bool

	// Enrichment flags
	ChatModel string

	// TTS flags
	AudioProvider     string
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Audio cache settings; config file only, no flags
	EnableAudioCache bool
	AudioCacheDir    string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		AudioDir:      "anki_audio",
		LedgerFile:    "added_words.txt",
		DeckName:      "German Vocabulary",
		ExampleCount:  3,
		ChatModel:     "gpt-4o-mini",
		AudioProvider: "openai",
		OpenAIModel:   "gpt-4o-mini-tts",
		OpenAISpeed:   0.9,
	}
}

// DefaultOutputName returns the package filename used when --output is not
// given. With a ledger in play every run produces new cards, so the name is
// timestamped to keep runs from overwriting each other; without a ledger the
// name derives from the sanitized deck name.
func DefaultOutputName(deckName string, useLedger bool, now time.Time) string {
	if useLedger {
		return fmt.Sprintf("generated_%s.apkg", now.Format("20060102_150405"))
	}
	return fmt.Sprintf("%s.apkg", strings.ToLower(internal.SanitizeFilename(deckName)))
}
