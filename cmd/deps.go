package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/ai/gemini"
	"github.com/spigell/jobfit/internal/keywords"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/optimizer"
	"github.com/spigell/jobfit/internal/resumetext"
	"github.com/spigell/jobfit/internal/secrets"
	"github.com/spigell/jobfit/internal/store"
)

// deps holds what a command needs. Fields are filled lazily by the open*
// helpers so commands only pay for what they use.
type deps struct {
	config    *Config
	logger    *zap.Logger
	store     store.Store
	completer ai.Completer
}

func newDeps() *deps {
	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	lg = logger.WithRequest(lg, uuid.NewString())
	lg.Debug("starting", zap.String("app", app), zap.String("version", version))

	return &deps{config: config, logger: lg}
}

func (d *deps) close() {
	if d.store != nil {
		d.store.Close()
	}
	_ = d.logger.Sync()
}

func (d *deps) openStore(ctx context.Context) (store.Store, error) {
	if d.store != nil {
		return d.store, nil
	}

	cfg := d.config.Database
	if cfg == nil {
		cfg = &DatabaseConfig{Driver: "sqlite", DSN: "jobfit.db"}
	}

	dsn := cfg.DSN
	if strings.TrimSpace(cfg.DSNFile) != "" {
		var err error
		dsn, err = secrets.Load(secrets.Source{Name: "database dsn", File: cfg.DSNFile, Value: cfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("loading database dsn: %w", err)
		}
	}

	s, err := store.Open(ctx, store.Config{Driver: cfg.Driver, DSN: dsn}, d.logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}
	d.store = s
	return s, nil
}

// openCompleter returns nil when generative text is disabled or cannot be
// configured; every caller has a deterministic path.
func (d *deps) openCompleter(ctx context.Context) ai.Completer {
	if d.completer != nil {
		return d.completer
	}

	cfg := d.config.AI
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	completer, err := newCompleter(ctx, cfg, d.logger)
	if err != nil {
		d.logger.Warn("generative text disabled", zap.Error(err))
		return nil
	}
	d.completer = completer
	return completer
}

func newCompleter(ctx context.Context, cfg *AIConfig, lg *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:            apiKey,
		Model:             cfg.Gemini.Model,
		FallbackModels:    cfg.Gemini.FallbackModels,
		Timeout:           cfg.Gemini.Timeout,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		MaxLogLength:      cfg.Gemini.MaxLogLength,
	}, lg)
	if err != nil {
		return nil, err
	}
	return generator, nil
}

func (d *deps) extractor(ctx context.Context) *keywords.Extractor {
	return keywords.NewExtractor(d.openCompleter(ctx), 0, d.logger)
}

func (d *deps) builder(ctx context.Context) *optimizer.Builder {
	return optimizer.New(d.openCompleter(ctx), d.extractor(ctx), d.logger)
}

func (d *deps) resumeLoader(ctx context.Context) (*resumetext.Loader, error) {
	cfg := d.config.Storage
	if cfg == nil {
		cfg = &StorageConfig{}
	}

	secret := cfg.SecretKey
	if strings.TrimSpace(cfg.SecretKeyFile) != "" {
		var err error
		if secret, err = secrets.Load(secrets.Source{Name: "storage secret key", File: cfg.SecretKeyFile}); err != nil {
			return nil, fmt.Errorf("loading storage secret key: %w", err)
		}
	}

	loader, err := resumetext.NewLoader(ctx, resumetext.S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: secret,
	}, d.logger)
	if err != nil {
		return nil, fmt.Errorf("configuring object storage: %w", err)
	}
	return loader, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
