package audio

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "de", "de+m1", "de+f1")
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	OutputDir string // Directory for output files
}

// DefaultESpeakConfig returns the default configuration for the German voice
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "de",
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		OutputDir: "./",
	}
}

// ESpeak provides an interface to the espeak-ng text-to-speech engine
type ESpeak struct {
	config *ESpeakConfig
}

// NewESpeak creates a new ESpeak instance with the given configuration
func NewESpeak(config *ESpeakConfig) (*ESpeak, error) {
	if config == nil {
		config = DefaultESpeakConfig()
	}

	if err := validateVoice(config.Voice); err != nil {
		return nil, err
	}

	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	return &ESpeak{config: config}, nil
}

// validateVoice rejects voices outside the supported German variants.
func validateVoice(voice string) error {
	for _, v := range ListVoices() {
		if v == voice {
			return nil
		}
	}
	return fmt.Errorf("unknown espeak voice %q, available: %s", voice, strings.Join(ListVoices(), ", "))
}

// GenerateWAV generates a WAV audio file for the given German text
func (e *ESpeak) GenerateWAV(text string, outputFile string) error {
	if text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	args := []string{
		"-v", e.config.Voice,
		"-s", fmt.Sprintf("%d", e.config.Speed),
		"-p", fmt.Sprintf("%d", e.config.Pitch),
		"-a", fmt.Sprintf("%d", e.config.Amplitude),
		"-w", outputFile,
		text,
	}

	cmd := exec.Command("espeak-ng", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// GenerateMP3 generates an MP3 file for the given German text
func (e *ESpeak) GenerateMP3(text string, outputFile string) error {
	// espeak-ng only writes WAV, so go through a temporary file
	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"

	if err := e.GenerateWAV(text, tempWAV); err != nil {
		return err
	}

	if err := convertWAVToMP3(tempWAV, outputFile); err != nil {
		os.Remove(tempWAV)
		return err
	}

	return os.Remove(tempWAV)
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	cmd := exec.Command("espeak-ng", "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// convertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func convertWAVToMP3(wavFile, mp3File string) error {
	if err := exec.Command("ffmpeg", "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.Command("ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// ListVoices returns available German voice variants
func ListVoices() []string {
	return []string{
		"de",    // Default German voice
		"de+m1", // German male voice 1
		"de+m2", // German male voice 2
		"de+m3", // German male voice 3
		"de+f1", // German female voice 1
		"de+f2", // German female voice 2
		"de+f3", // German female voice 3
	}
}
