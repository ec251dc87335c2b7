package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/avoelk/wortkarten/internal/archive"
	"github.com/avoelk/wortkarten/internal/audio"
	"github.com/avoelk/wortkarten/internal/cli"
	"github.com/avoelk/wortkarten/internal/enrich"
	"github.com/avoelk/wortkarten/internal/models"
	"github.com/avoelk/wortkarten/internal/processor"
)

func main() {
	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags)
	generateCmd := cli.CreateGenerateCommand(flags)
	rootCmd.AddCommand(generateCmd)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cli.ApplyConfigOverrides(flags)

		// Handle --archive flag
		if flags.Archive {
			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine working directory: %w", err)
			}
			return archive.ArchiveOutput(workDir, flags.AudioDir)
		}

		// Handle --list-models flag
		if flags.ListModels {
			lister := models.NewLister(cli.GetOpenAIKey())
			return lister.ListAvailableModels()
		}

		// Handle --clear-audio-cache flag
		if flags.ClearAudioCache {
			if err := audio.ClearCache(flags.AudioCacheDir); err != nil {
				return fmt.Errorf("failed to clear audio cache: %w", err)
			}
			fmt.Printf("Audio cache cleared: %s\n", flags.AudioCacheDir)
			return nil
		}

		return cmd.Help()
	}

	generateCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runGenerate(args[0], flags)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(inputFile string, flags *cli.Flags) error {
	cli.ApplyConfigOverrides(flags)

	apiKey := cli.GetOpenAIKey()
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY or configure it in .wortkarten.yaml")
	}

	ledgerPath := flags.LedgerFile
	if flags.NoLedger {
		ledgerPath = ""
	}

	outputPath := flags.OutputFile
	if outputPath == "" {
		outputPath = cli.DefaultOutputName(flags.DeckName, ledgerPath != "", time.Now())
	}

	enricher := enrich.NewClient(apiKey)
	enricher.SetModel(flags.ChatModel)

	speech, err := buildSpeechProvider(flags, apiKey)
	if err != nil {
		return err
	}

	proc := processor.New(processor.Options{
		InputFile:    inputFile,
		OutputPath:   outputPath,
		AudioDir:     flags.AudioDir,
		LedgerPath:   ledgerPath,
		DeckName:     flags.DeckName,
		ExampleCount: flags.ExampleCount,
		StopOnError:  !flags.ContinueOnError,
	}, enricher, speech)

	_, err = proc.Run(context.Background())
	return err
}

// buildSpeechProvider configures the TTS provider from flags. The OpenAI
// provider gets espeak as fallback when espeak is installed, so a TTS quota
// problem degrades audio quality instead of failing the run.
func buildSpeechProvider(flags *cli.Flags, apiKey string) (audio.Provider, error) {
	config := audio.DefaultProviderConfig()
	config.Provider = flags.AudioProvider
	config.OpenAIKey = apiKey
	config.OpenAIModel = flags.OpenAIModel
	config.OpenAISpeed = flags.OpenAISpeed
	if flags.OpenAIVoice != "" {
		config.OpenAIVoice = flags.OpenAIVoice
	}
	if flags.OpenAIInstruction != "" {
		config.OpenAIInstruction = flags.OpenAIInstruction
	}
	config.EnableCache = flags.EnableAudioCache
	config.CacheDir = flags.AudioCacheDir

	primary, err := audio.NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("failed to configure audio provider: %w", err)
	}

	if config.Provider == "openai" {
		if fallback, err := audio.NewESpeakProvider(audio.DefaultESpeakConfig()); err == nil && fallback.IsAvailable() == nil {
			return audio.NewProviderWithFallback(primary, fallback), nil
		}
	}

	return primary, nil
}
