package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avoelk/wortkarten/internal/anki"
	"github.com/avoelk/wortkarten/internal/audio"
	"github.com/avoelk/wortkarten/internal/card"
	"github.com/avoelk/wortkarten/internal/enrich"
	"github.com/avoelk/wortkarten/internal/ledger"
	"github.com/avoelk/wortkarten/internal/words"
)

// Enricher produces a structured record for one raw input word.
type Enricher interface {
	Enrich(ctx context.Context, word string, exampleCount int) (*enrich.Record, error)
}

// Options configures one pipeline run.
type Options struct {
	InputFile    string
	OutputPath   string
	AudioDir     string
	LedgerPath   string // empty disables the persisted ledger (in-run dedup only)
	DeckName     string
	ExampleCount int
	// StopOnError stops the batch on the first failure that happens after at
	// least one card was added, still exporting everything accumulated so
	// far. When false, failed words are skipped and the batch continues.
	StopOnError bool
	// Identity is the per-run deck/model identity; the zero value generates
	// a fresh one.
	Identity anki.Identity
}

// Failure records why one word produced no card.
type Failure struct {
	Word   string
	Reason string
}

// Summary is the result of one run.
type Summary struct {
	Processed int
	Added     int
	Skipped   int
	Failures  []Failure
	Stopped   bool
	// OutputPath is the written package file, or empty when the run added
	// no cards and nothing was exported.
	OutputPath string
}

// Processor runs the word-to-deck pipeline.
type Processor struct {
	opts     Options
	enricher Enricher
	speech   audio.Provider
}

// New creates a processor with explicit service collaborators.
func New(opts Options, enricher Enricher, speech audio.Provider) *Processor {
	return &Processor{
		opts:     opts,
		enricher: enricher,
		speech:   speech,
	}
}

// Run processes the whole word list and exports the deck. It returns an
// error only for fatal conditions (unreadable input, empty word list,
// export or ledger write failure); per-word failures end up in the summary.
func (p *Processor) Run(ctx context.Context) (*Summary, error) {
	wordList, err := words.ReadWordFile(p.opts.InputFile)
	if err != nil {
		return nil, err
	}
	if len(wordList) == 0 {
		return nil, fmt.Errorf("no words found in %s", p.opts.InputFile)
	}
	fmt.Printf("Found %d words to process.\n", len(wordList))

	led, err := ledger.Load(p.opts.LedgerPath)
	if err != nil {
		return nil, err
	}
	if p.opts.LedgerPath != "" && led.Len() > 0 {
		fmt.Printf("Found %d existing words in %s\n", led.Len(), p.opts.LedgerPath)
	}

	if err := os.MkdirAll(p.opts.AudioDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}

	deck := anki.NewDeck(p.opts.DeckName)
	summary := &Summary{}

	for i, word := range wordList {
		fmt.Printf("\nProcessing %d/%d: %s\n", i+1, len(wordList), word)
		summary.Processed++

		rec, err := p.enricher.Enrich(ctx, word, p.opts.ExampleCount)
		if err != nil {
			if p.fail(summary, word, err) {
				break
			}
			continue
		}
		fmt.Printf("  ✓ Enriched: %s → %s (%s)\n", rec.German, rec.English, rec.WordType)

		// Dedup on the canonical form, not the raw input: "hause" and
		// "Hause" both resolve to "Haus" and must match a ledger entry for
		// it. The check runs before any audio is synthesized.
		if led.Contains(rec.German) {
			fmt.Printf("  - Skipped: '%s' already exported\n", rec.German)
			summary.Skipped++
			continue
		}

		audioFiles, err := p.synthesizeExamples(ctx, rec)
		if err != nil {
			if p.fail(summary, word, err) {
				break
			}
			continue
		}

		deck.AddCard(card.Assemble(rec, audioFiles), audioFiles...)
		led.Add(rec.German)
		summary.Added++
		fmt.Printf("  ✓ Card created with %d audio files\n", len(audioFiles))
	}

	if deck.Len() > 0 {
		identity := p.opts.Identity
		if identity == (anki.Identity{}) {
			identity = anki.NewIdentity()
		}

		fmt.Printf("\nExporting deck...\n")
		gen := anki.NewAPKGGenerator(deck, identity)
		if err := gen.GenerateAPKG(p.opts.OutputPath); err != nil {
			return summary, err
		}
		summary.OutputPath = p.opts.OutputPath
		fmt.Printf("Deck exported as %s\n", p.opts.OutputPath)

		if p.opts.LedgerPath != "" {
			if err := led.Append(filepath.Base(p.opts.OutputPath)); err != nil {
				return summary, err
			}
		}
	}

	p.printSummary(summary)
	return summary, nil
}

// fail records a per-word failure and reports whether the batch should stop.
// The conservative early stop only triggers once at least one card exists:
// stopping then is cheaper than risking that every following word fails for
// the same unexplained reason.
func (p *Processor) fail(summary *Summary, word string, err error) bool {
	fmt.Fprintf(os.Stderr, "  ✗ Failed: %v\n", err)
	summary.Failures = append(summary.Failures, Failure{Word: word, Reason: err.Error()})

	if p.opts.StopOnError && summary.Added > 0 {
		fmt.Fprintf(os.Stderr, "Stopping after failure; exporting %d cards collected so far.\n", summary.Added)
		summary.Stopped = true
		return true
	}
	return false
}

// synthesizeExamples generates one audio file per example sentence, in
// example order. Files already written when a later sentence fails are left
// on disk; they are regenerated under the same names on the next run.
func (p *Processor) synthesizeExamples(ctx context.Context, rec *enrich.Record) ([]string, error) {
	audioFiles := make([]string, 0, len(rec.Examples))

	for i, ex := range rec.Examples {
		outputFile := filepath.Join(p.opts.AudioDir, audio.ExampleFileName(rec.German, i+1))
		if err := p.speech.GenerateAudio(ctx, ex.German, outputFile); err != nil {
			return nil, err
		}
		audioFiles = append(audioFiles, outputFile)
	}

	return audioFiles, nil
}

// printSummary prints the human-readable run summary.
func (p *Processor) printSummary(summary *Summary) {
	fmt.Printf("\n=== Run Summary ===\n")
	fmt.Printf("Words processed: %d\n", summary.Processed)
	fmt.Printf("Cards added: %d\n", summary.Added)
	fmt.Printf("Skipped (already exported): %d\n", summary.Skipped)
	if len(summary.Failures) > 0 {
		fmt.Printf("Failed: %d\n", len(summary.Failures))
		for _, f := range summary.Failures {
			fmt.Printf("  - %s: %s\n", f.Word, f.Reason)
		}
	}
	if summary.Stopped {
		fmt.Printf("Run stopped early after a failure.\n")
	}
	if summary.OutputPath != "" {
		fmt.Printf("Deck saved as: %s\n", summary.OutputPath)
	} else {
		fmt.Printf("No new cards, nothing exported.\n")
	}
	fmt.Printf("===================\n")
}
