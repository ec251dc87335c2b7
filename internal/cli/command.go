package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avoelk/wortkarten/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wortkarten",
		Short: "German Anki Flashcard Generator",
		Long: `wortkarten turns a plain list of German words into a ready-to-import
Anki deck. Each word is enriched with its translation, grammar details and
example sentences, spoken audio is generated for every example, and the
result is packaged as an .apkg file.

Examples:
  wortkarten generate words.txt                  # Generate a deck from words.txt
  wortkarten generate words.txt -o my_deck.apkg  # Custom output file
  wortkarten --list-models                       # Show usable OpenAI models
  wortkarten --archive                           # Move generated output aside`,
		Version: internal.Version,
	}

	setupRootFlags(rootCmd, flags)
	return rootCmd
}

// CreateGenerateCommand creates the generate subcommand. The run function is
// attached by the caller.
func CreateGenerateCommand(flags *Flags) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate <input-file>",
		Short: "Generate an Anki deck from a word list file",
		Args:  cobra.ExactArgs(1),
	}

	setupGenerateFlags(generateCmd, flags)
	return generateCmd
}

func setupRootFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.wortkarten.yaml)")

	// Local flags
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move generated decks and audio into a timestamped archive directory")
	cmd.Flags().BoolVar(&flags.ClearAudioCache, "clear-audio-cache", false, "Delete the cached TTS audio (audio.cache_dir in the config file)")
}

func setupGenerateFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Output .apkg file (default: timestamped name)")
	cmd.Flags().StringVar(&flags.AudioDir, "audio-dir", flags.AudioDir, "Directory for generated audio files")
	cmd.Flags().StringVar(&flags.LedgerFile, "ledger", flags.LedgerFile, "Ledger file tracking already exported words")
	cmd.Flags().BoolVar(&flags.NoLedger, "no-ledger", false, "Disable the ledger (duplicates across runs are not detected)")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	cmd.Flags().IntVar(&flags.ExampleCount, "examples", flags.ExampleCount, "Number of example sentences per word")
	cmd.Flags().BoolVar(&flags.ContinueOnError, "continue-on-error", false, "Keep processing remaining words after a failure")

	// Enrichment flags
	cmd.Flags().StringVar(&flags.ChatModel, "chat-model", flags.ChatModel, "OpenAI chat model for word enrichment")

	// TTS flags
	cmd.Flags().StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "TTS provider: openai or espeak")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", "", "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse (default: random)")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts (e.g. 'speak slowly and clearly')")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("audio-provider"))
	viper.BindPFlag("audio.directory", cmd.Flags().Lookup("audio-dir"))
	viper.BindPFlag("audio.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", cmd.Flags().Lookup("openai-speed"))
	viper.BindPFlag("audio.openai_instruction", cmd.Flags().Lookup("openai-instruction"))
	viper.BindPFlag("enrichment.chat_model", cmd.Flags().Lookup("chat-model"))
	viper.BindPFlag("enrichment.examples", cmd.Flags().Lookup("examples"))
	viper.BindPFlag("deck.name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("deck.ledger", cmd.Flags().Lookup("ledger"))
}

// ApplyConfigOverrides fills flag values from the config file or environment
// for every setting the user did not override on the command line. Bound keys
// resolve through viper, which prefers an explicitly set flag over config
// values over the flag default.
func ApplyConfigOverrides(flags *Flags) {
	if flags.AudioProvider == "openai" && viper.IsSet("audio.provider") {
		flags.AudioProvider = viper.GetString("audio.provider")
	}
	if flags.AudioDir == "anki_audio" && viper.IsSet("audio.directory") {
		flags.AudioDir = viper.GetString("audio.directory")
	}
	if flags.OpenAIModel == "gpt-4o-mini-tts" && viper.IsSet("audio.openai_model") {
		flags.OpenAIModel = viper.GetString("audio.openai_model")
	}
	if flags.OpenAIVoice == "" && viper.IsSet("audio.openai_voice") {
		flags.OpenAIVoice = viper.GetString("audio.openai_voice")
	}
	if flags.OpenAISpeed == 0.9 && viper.IsSet("audio.openai_speed") {
		flags.OpenAISpeed = viper.GetFloat64("audio.openai_speed")
	}
	if flags.OpenAIInstruction == "" && viper.IsSet("audio.openai_instruction") {
		flags.OpenAIInstruction = viper.GetString("audio.openai_instruction")
	}
	if flags.ChatModel == "gpt-4o-mini" && viper.IsSet("enrichment.chat_model") {
		flags.ChatModel = viper.GetString("enrichment.chat_model")
	}
	if flags.ExampleCount == 3 && viper.IsSet("enrichment.examples") {
		flags.ExampleCount = viper.GetInt("enrichment.examples")
	}
	if flags.DeckName == "German Vocabulary" && viper.IsSet("deck.name") {
		flags.DeckName = viper.GetString("deck.name")
	}
	if flags.LedgerFile == "added_words.txt" && viper.IsSet("deck.ledger") {
		flags.LedgerFile = viper.GetString("deck.ledger")
	}

	// Cache settings have no flags; they come from the config file only.
	flags.EnableAudioCache = viper.GetBool("audio.enable_cache")
	flags.AudioCacheDir = viper.GetString("audio.cache_dir")
	if flags.AudioCacheDir == "" {
		flags.AudioCacheDir = "./.audio_cache"
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".wortkarten" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wortkarten")
	}

	// Environment variables
	viper.SetEnvPrefix("WORTKARTEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config. The
// key itself is never printed or logged.
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("openai_key")
}
