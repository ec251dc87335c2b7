package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/avoelk/wortkarten/internal/enrich"
	"github.com/avoelk/wortkarten/internal/testutil"
	"github.com/avoelk/wortkarten/internal/words"
)

func hausRecord() *enrich.Record {
	return testutil.NounRecord("Haus", "das", "Häuser", "house",
		enrich.Example{German: "Das Haus ist groß.", English: "The house is big."},
		enrich.Example{German: "Wir kaufen ein Haus.", English: "We are buying a house."},
	)
}

func testOptions(t *testing.T, inputFile string) Options {
	t.Helper()

	dir := t.TempDir()
	return Options{
		InputFile:    inputFile,
		OutputPath:   filepath.Join(dir, "german_vocabulary.apkg"),
		AudioDir:     filepath.Join(dir, "audio"),
		LedgerPath:   filepath.Join(dir, "added_words.txt"),
		DeckName:     "German Vocabulary",
		ExampleCount: 3,
		StopOnError:  true,
	}
}

func TestRunSingleWord(t *testing.T) {
	input := testutil.CreateWordFile(t, t.TempDir(), "hause")
	opts := testOptions(t, input)

	enricher := &testutil.MockEnricher{
		Records: map[string]*enrich.Record{"hause": hausRecord()},
	}
	p := New(opts, enricher, testutil.NewMockSpeechProvider())

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Processed != 1 || summary.Added != 1 || summary.Skipped != 0 {
		t.Errorf("Summary = %+v, want 1 processed, 1 added, 0 skipped", summary)
	}
	if summary.OutputPath != opts.OutputPath {
		t.Errorf("OutputPath = %q, want %q", summary.OutputPath, opts.OutputPath)
	}

	testutil.AssertFileExists(t, opts.OutputPath)
	testutil.AssertFileExists(t, filepath.Join(opts.AudioDir, "haus_ex1.mp3"))
	testutil.AssertFileExists(t, filepath.Join(opts.AudioDir, "haus_ex2.mp3"))

	// The ledger records the canonical form, not the raw input.
	testutil.AssertFileContains(t, opts.LedgerPath, "Haus")
	testutil.AssertFileContains(t, opts.LedgerPath, "# german_vocabulary.apkg")
}

func TestRunSkipsWordsAlreadyInLedger(t *testing.T) {
	input := testutil.CreateWordFile(t, t.TempDir(), "hause")
	opts := testOptions(t, input)
	testutil.CreateTestFile(t, opts.LedgerPath, []byte("# earlier run\nHaus\n"))

	enricher := &testutil.MockEnricher{
		Records: map[string]*enrich.Record{"hause": hausRecord()},
	}
	speech := testutil.NewMockSpeechProvider()
	p := New(opts, enricher, speech)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Processed != 1 || summary.Added != 0 || summary.Skipped != 1 {
		t.Errorf("Summary = %+v, want 1 processed, 0 added, 1 skipped", summary)
	}
	if summary.OutputPath != "" {
		t.Errorf("OutputPath = %q, want empty for a run with no new cards", summary.OutputPath)
	}
	testutil.AssertFileNotExists(t, opts.OutputPath)

	// Skipping happens after enrichment but before any synthesis.
	if len(speech.Calls) != 0 {
		t.Errorf("Expected no TTS calls for a skipped word, got %v", speech.Calls)
	}

	// The ledger file must not grow from a run that added nothing.
	data, err := os.ReadFile(opts.LedgerPath)
	if err != nil {
		t.Fatalf("Failed to read ledger: %v", err)
	}
	if string(data) != "# earlier run\nHaus\n" {
		t.Errorf("Ledger was modified: %q", data)
	}
}

func TestRunStopsAfterFailureFollowingSuccess(t *testing.T) {
	input := testutil.CreateWordFile(t, t.TempDir(), "Haus", "Xyzzy", "lernen")
	opts := testOptions(t, input)

	enricher := &testutil.MockEnricher{
		Records: map[string]*enrich.Record{"Haus": hausRecord()},
		Errors:  map[string]error{"Xyzzy": fmt.Errorf("%w: boom", enrich.ErrService)},
	}
	p := New(opts, enricher, testutil.NewMockSpeechProvider())

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !summary.Stopped {
		t.Error("Expected the run to stop early")
	}
	if summary.Processed != 2 {
		t.Errorf("Processed = %d, want 2 (third word never attempted)", summary.Processed)
	}
	if summary.Added != 1 {
		t.Errorf("Added = %d, want 1", summary.Added)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].Word != "Xyzzy" {
		t.Errorf("Failures = %v, want one entry for Xyzzy", summary.Failures)
	}

	// The cards collected before the failure are still exported.
	testutil.AssertFileExists(t, opts.OutputPath)
	testutil.AssertFileContains(t, opts.LedgerPath, "Haus")
}

func TestRunContinuesOnErrorWhenConfigured(t *testing.T) {
	input := testutil.CreateWordFile(t, t.TempDir(), "Haus", "Xyzzy", "Katze")
	opts := testOptions(t, input)
	opts.StopOnError = false

	enricher := &testutil.MockEnricher{
		Records: map[string]*enrich.Record{"Haus": hausRecord()},
		Errors:  map[string]error{"Xyzzy": fmt.Errorf("%w: boom", enrich.ErrService)},
	}
	p := New(opts, enricher, testutil.NewMockSpeechProvider())

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Stopped {
		t.Error("Expected the run to continue past the failure")
	}
	if summary.Processed != 3 || summary.Added != 2 {
		t.Errorf("Summary = %+v, want 3 processed, 2 added", summary)
	}
	if len(summary.Failures) != 1 {
		t.Errorf("Failures = %v, want one entry", summary.Failures)
	}
}

func TestRunFailureBeforeAnySuccessDoesNotStop(t *testing.T) {
	input := testutil.CreateWordFile(t, t.TempDir(), "Xyzzy", "Haus")
	opts := testOptions(t, input)

	enricher := &testutil.MockEnricher{
		Records: map[string]*enrich.Record{"Haus": hausRecord()},
		Errors:  map[string]error{"Xyzzy": fmt.Errorf("%w: boom", enrich.ErrService)},
	}
	p := New(opts, enricher, testutil.NewMockSpeechProvider())

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Stopped {
		t.Error("A failure with no prior success must not stop the batch")
	}
	if summary.Processed != 2 || summary.Added != 1 {
		t.Errorf("Summary = %+v, want 2 processed, 1 added", summary)
	}
}

func TestRunAudioFailureFailsTheWord(t *testing.T) {
	input := testutil.CreateWordFile(t, t.TempDir(), "hause")
	opts := testOptions(t, input)

	enricher := &testutil.MockEnricher{
		Records: map[string]*enrich.Record{"hause": hausRecord()},
	}
	speech := testutil.NewMockSpeechProvider()
	speech.Errors = map[string]error{
		"Wir kaufen ein Haus.": fmt.Errorf("synthesis failed"),
	}
	p := New(opts, enricher, speech)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Added != 0 || len(summary.Failures) != 1 {
		t.Errorf("Summary = %+v, want 0 added and 1 failure", summary)
	}
	testutil.AssertFileNotExists(t, opts.OutputPath)

	// A ledger never records a word whose card was not exported.
	testutil.AssertFileNotExists(t, opts.LedgerPath)
}

func TestRunDuplicateInputsWithinOneRun(t *testing.T) {
	input := testutil.CreateWordFile(t, t.TempDir(), "Haus", "hause")
	opts := testOptions(t, input)

	enricher := &testutil.MockEnricher{
		Records: map[string]*enrich.Record{
			"Haus":  hausRecord(),
			"hause": hausRecord(),
		},
	}
	p := New(opts, enricher, testutil.NewMockSpeechProvider())

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Added != 1 || summary.Skipped != 1 {
		t.Errorf("Summary = %+v, want 1 added, 1 skipped", summary)
	}
}

func TestRunMissingInputFile(t *testing.T) {
	opts := testOptions(t, filepath.Join(t.TempDir(), "nope.txt"))
	p := New(opts, &testutil.MockEnricher{}, testutil.NewMockSpeechProvider())

	_, err := p.Run(context.Background())
	if !errors.Is(err, words.ErrNotFound) {
		t.Errorf("Run() error = %v, want words.ErrNotFound", err)
	}
}

func TestRunEmptyWordList(t *testing.T) {
	input := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, input, []byte("\n# only a comment\n\n"))
	opts := testOptions(t, input)

	p := New(opts, &testutil.MockEnricher{}, testutil.NewMockSpeechProvider())

	_, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error for an empty word list")
	}
}

func TestRunWithoutLedger(t *testing.T) {
	input := testutil.CreateWordFile(t, t.TempDir(), "hause")
	opts := testOptions(t, input)
	opts.LedgerPath = ""

	enricher := &testutil.MockEnricher{
		Records: map[string]*enrich.Record{"hause": hausRecord()},
	}
	p := New(opts, enricher, testutil.NewMockSpeechProvider())

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Added != 1 {
		t.Errorf("Added = %d, want 1", summary.Added)
	}
	testutil.AssertFileExists(t, opts.OutputPath)
}
