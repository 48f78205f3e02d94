// Package main provides the entry point for the Alouette speech CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alouette/alouette/internal/audio"
	"github.com/alouette/alouette/internal/platform"
	"github.com/alouette/alouette/internal/voicecache"
	"github.com/alouette/alouette/tts"
	"github.com/alouette/alouette/tts/bridge"
	"github.com/alouette/alouette/tts/discovery"
	"github.com/alouette/alouette/tts/engines"
	"github.com/alouette/alouette/tts/service"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	debug      bool
	engineName string

	voiceID      string
	languageName string
	speechRate   float64
	pitch        float64
	volume       float64
	audioFormat  string
	useMarkup    bool
	outputFile   string
	languageCode string

	keyword = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}).Render
	subtle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}).Render

	rootCmd = &cobra.Command{
		Use:          "alouette",
		Short:        "Speak text from the command line",
		Long:         "\nSynthesize and play speech through the best engine the platform offers.",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if debug || viper.GetBool("debug") {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	speakCmd = &cobra.Command{
		Use:   "speak [TEXT|-]",
		Short: "Synthesize text and play it, reading stdin when TEXT is -",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSpeak,
	}

	voicesCmd = &cobra.Command{
		Use:   "voices",
		Short: "List the voices the active engine offers",
		Args:  cobra.NoArgs,
		RunE:  runVoices,
	}

	enginesCmd = &cobra.Command{
		Use:   "engines",
		Short: "Show engine availability on this platform",
		Args:  cobra.NoArgs,
		RunE:  runEngines,
	}
)

// loadConfig layers defaults, the config file and the environment.
func loadConfig() (tts.Config, error) {
	config, err := env.ParseAs[tts.Config]()
	if err != nil {
		return tts.Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	// Config file values win over built-in defaults but lose to explicit
	// environment variables, which env.ParseAs has already applied.
	if viper.IsSet("engine") && os.Getenv("ALOUETTE_TTS_ENGINE") == "" {
		config.Engine = viper.GetString("engine")
	}
	if viper.IsSet("speech_rate") && os.Getenv("ALOUETTE_TTS_SPEECH_RATE") == "" {
		config.SpeechRate = viper.GetFloat64("speech_rate")
	}
	if viper.IsSet("language_code") && os.Getenv("ALOUETTE_TTS_LANGUAGE") == "" {
		config.LanguageCode = viper.GetString("language_code")
	}
	if viper.IsSet("voice_list_url") && os.Getenv("ALOUETTE_TTS_VOICE_LIST_URL") == "" {
		config.VoiceListURL = viper.GetString("voice_list_url")
	}
	if viper.IsSet("bridge.executable") && os.Getenv("ALOUETTE_TTS_BRIDGE_EXECUTABLE") == "" {
		config.Bridge.Executable = viper.GetString("bridge.executable")
	}

	if engineName != "" {
		config.Engine = engineName
	}
	if err := config.Validate(); err != nil {
		return tts.Config{}, err
	}
	return config, nil
}

// buildService assembles the full pipeline: detector, bridge client,
// discovery, factory and orchestrator.
func buildService(config tts.Config, sink tts.AudioSink) *service.Service {
	detector := platform.NewDetector()
	bridgeClient := bridge.NewClient(config.Bridge)
	cache := voicecache.New(voicecache.WithTTL(config.VoiceCacheTTL))
	disc := discovery.New(bridgeClient, cache,
		discovery.WithURL(config.VoiceListURL),
		discovery.WithTimeout(config.DiscoveryTimeout))
	factory := engines.NewFactory(detector, config, bridgeClient, disc)
	return service.New(config, factory, sink)
}

func synthesisOverrides() []tts.ConfigOverride {
	overrides := []tts.ConfigOverride{
		tts.WithRate(speechRate),
		tts.WithPitch(pitch),
		tts.WithVolume(volume),
		tts.WithMarkup(useMarkup),
	}
	if audioFormat != "" {
		overrides = append(overrides, tts.WithFormat(tts.AudioFormat(audioFormat)))
	}
	return overrides
}

func runSpeak(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	var sink tts.AudioSink = audio.NewSink()
	if outputFile != "" {
		// Writing to a file, no playback wanted.
		sink = audio.NewMockSink()
	}

	svc := buildService(config, sink)
	defer svc.Dispose()

	ctx := cmd.Context()
	if err := svc.Initialize(ctx); err != nil {
		return err
	}
	log.Debug("initialized", "engine", svc.CurrentEngine())

	text := strings.Join(args, " ")
	if text == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if outputFile != "" {
		overrides := synthesisOverrides()
		if voiceID != "" {
			overrides = append(overrides, tts.WithVoice(voiceID))
		}
		result := svc.Synthesize(ctx, text, overrides...)
		if !result.Success {
			return result.Err
		}
		if tts.IsDirectPlayback(result.Audio) {
			return fmt.Errorf("engine %s plays audio directly and cannot write %s", result.Engine, outputFile)
		}
		if err := os.WriteFile(outputFile, result.Audio, 0o644); err != nil {
			return fmt.Errorf("writing audio: %w", err)
		}
		fmt.Printf("Wrote %s to %s (%s, %s)\n",
			humanize.Bytes(uint64(len(result.Audio))), outputFile, result.VoiceUsed, result.ProcessingTime)
		return nil
	}

	return svc.SpeakText(ctx, text, voiceID, languageName, synthesisOverrides()...)
}

func runVoices(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	svc := buildService(config, audio.NewMockSink())
	defer svc.Dispose()

	ctx := cmd.Context()
	if err := svc.Initialize(ctx); err != nil {
		return err
	}

	var voices []tts.Voice
	if languageCode != "" {
		voices, err = svc.GetVoicesForLanguage(ctx, languageCode)
	} else {
		voices, err = svc.GetVoices(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s voices on %s\n\n", keyword(fmt.Sprint(len(voices))), svc.CurrentEngine())
	for _, v := range discovery.SortByPreference(voices) {
		marker := "  "
		if v.IsDefaultForLanguage {
			marker = keyword("* ")
		}
		fmt.Printf("%s%-32s %-8s %-8s %s\n",
			marker, v.ID, v.LanguageCode, v.Gender, subtle(string(v.Quality)))
	}
	return nil
}

func runEngines(cmd *cobra.Command, _ []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	detector := platform.NewDetector()
	bridgeClient := bridge.NewClient(config.Bridge)
	cache := voicecache.New()
	disc := discovery.New(bridgeClient, cache)
	factory := engines.NewFactory(detector, config, bridgeClient, disc)

	ctx := cmd.Context()
	strategy := factory.Strategy()
	fmt.Printf("Platform: %s (%s), preferred engine: %s\n\n",
		detector.Classify(), detector.OS(), keyword(string(strategy.Preferred)))
	for _, engine := range tts.AllEngineTypes {
		status := subtle("unsupported")
		if strategy.IsSupported(engine) {
			if factory.IsEngineAvailable(ctx, engine) {
				status = keyword("available")
			} else {
				status = "unavailable"
			}
		}
		fmt.Printf("  %-16s %s\n", engine, status)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")
	rootCmd.PersistentFlags().StringVarP(&engineName, "engine", "e", "", "engine to use (commandBridge/nativePlatform)")

	speakCmd.Flags().StringVarP(&voiceID, "voice", "v", "", "voice id, e.g. en-US-AriaNeural")
	speakCmd.Flags().StringVarP(&languageName, "language", "l", "", "language name used to pick a voice, e.g. french")
	speakCmd.Flags().Float64Var(&speechRate, "rate", 1.0, "speech rate multiplier (0.1-3.0)")
	speakCmd.Flags().Float64Var(&pitch, "pitch", 1.0, "pitch multiplier (0.5-2.0)")
	speakCmd.Flags().Float64Var(&volume, "volume", 1.0, "volume (0.0-1.0)")
	speakCmd.Flags().StringVar(&audioFormat, "format", "", "audio format (mp3/wav/ogg)")
	speakCmd.Flags().BoolVar(&useMarkup, "markup", false, "wrap text in a synthesis markup envelope")
	speakCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write audio to a file instead of playing it")

	voicesCmd.Flags().StringVarP(&languageCode, "language", "l", "", "filter by language code, e.g. fr-FR")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))

	rootCmd.AddCommand(speakCmd, voicesCmd, enginesCmd, configCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "alouette")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find the configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "alouette")}, dirs...)
	}
	if c := os.Getenv("ALOUETTE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("alouette")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("alouette")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}
	configFile = filepath.Join(dirs[0], "alouette.yml")
}
