package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kaiwa-dev/kaiwa/pkg/adapter"
	"github.com/kaiwa-dev/kaiwa/pkg/completion"
	"github.com/kaiwa-dev/kaiwa/pkg/repository"
	"github.com/kaiwa-dev/kaiwa/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	// Identity
	user string

	// Repository
	project     string
	database    string
	credentials string
	local       bool

	// Adapters
	geminiProject  string
	geminiLocation string
	geminiModel    string
	systemPrompt   string
	bucket         string
	ttsEndpoint    string

	logLevel   string
	configPath string
}

// fileConfig is the optional YAML config file. Flags and env vars win
// over file values.
type fileConfig struct {
	Model        string `yaml:"model"`
	SystemPrompt string `yaml:"system_prompt"`
	TTSEndpoint  string `yaml:"tts_endpoint"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "Opaque user identity owning the topics",
			Sources:     cli.EnvVars("KAIWA_USER"),
			Destination: &cfg.user,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "credentials",
			Usage:       "Path to a Google Cloud credentials JSON file",
			Sources:     cli.EnvVars("GOOGLE_APPLICATION_CREDENTIALS"),
			Destination: &cfg.credentials,
		},
		&cli.BoolFlag{
			Name:        "local",
			Usage:       "Use an in-memory store instead of Firestore (state is lost on exit)",
			Sources:     cli.EnvVars("KAIWA_LOCAL"),
			Destination: &cfg.local,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("KAIWA_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a YAML config file",
			Sources:     cli.EnvVars("KAIWA_CONFIG"),
			Destination: &cfg.configPath,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Generative model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "system-prompt",
			Usage:       "System instruction for reply generation",
			Sources:     cli.EnvVars("KAIWA_SYSTEM_PROMPT"),
			Destination: &cfg.systemPrompt,
		},
	}
}

// storageFlags returns flags for the transcript archive bucket
func storageFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for transcripts",
			Sources:     cli.EnvVars("KAIWA_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// ttsFlags returns flags for the text-to-speech collaborator
func ttsFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tts-endpoint",
			Usage:       "Text-to-speech service endpoint",
			Sources:     cli.EnvVars("KAIWA_TTS_ENDPOINT"),
			Destination: &cfg.ttsEndpoint,
		},
	}
}

// setup loads the optional config file and attaches a configured logger
// to the context. Call it first in every command action.
func (cfg *config) setup(ctx context.Context) (context.Context, error) {
	if err := cfg.loadFile(); err != nil {
		return ctx, err
	}
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger), nil
}

func (cfg *config) loadFile() error {
	path := cfg.configPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".config", "kaiwa", "config.yml")
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	if cfg.geminiModel == "" {
		cfg.geminiModel = fc.Model
	}
	if cfg.systemPrompt == "" {
		cfg.systemPrompt = fc.SystemPrompt
	}
	if cfg.ttsEndpoint == "" {
		cfg.ttsEndpoint = fc.TTSEndpoint
	}
	return nil
}

func (cfg *config) clientOptions() []option.ClientOption {
	if cfg.credentials == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.credentials)}
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.local {
		return repository.NewMemory(), nil
	}

	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database, cfg.clientOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newCompletion creates a Gemini-backed completion client
func (cfg *config) newCompletion(ctx context.Context) (completion.Client, error) {
	project := cfg.geminiProject
	if project == "" {
		project = cfg.project
	}
	if project == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}

	gemini, err := adapter.NewGemini(ctx, project, cfg.geminiLocation, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini adapter")
	}

	var copts []completion.Option
	if cfg.systemPrompt != "" {
		copts = append(copts, completion.WithSystemPrompt(cfg.systemPrompt))
	}
	return completion.NewGemini(gemini, copts...), nil
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket, cfg.clientOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// newTTS creates a text-to-speech client
func (cfg *config) newTTS() (adapter.TTS, error) {
	if cfg.ttsEndpoint == "" {
		return nil, goerr.New("tts-endpoint is required")
	}
	return adapter.NewTTS(cfg.ttsEndpoint), nil
}

// requireUser validates that a user identity is configured
func (cfg *config) requireUser() error {
	if cfg.user == "" {
		return goerr.New("user is required")
	}
	return nil
}
