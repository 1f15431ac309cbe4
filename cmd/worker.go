package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/secrets"
	"github.com/spigell/jobfit/internal/store"
	"github.com/spigell/jobfit/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Serve resume optimization requests from RabbitMQ",
	RunE:  runWith(serveQueue),
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a JSON portal snapshot into the local SQLite database",
	RunE:  runWith(seedDatabase),
}

func init() {
	rootCmd.AddCommand(workerCmd, seedCmd)

	workerCmd.Flags().Int("workers", 0, "number of consumers (overrides worker.workers)")

	seedCmd.Flags().String("file", "", "fixture file")
	seedCmd.MarkFlagRequired("file")
}

func serveQueue(ctx context.Context, cmd *cobra.Command, d *deps) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := d.config.Worker
	if cfg == nil {
		cfg = &WorkerConfig{}
	}
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		cfg.Workers = n
	}

	url, err := secrets.Load(secrets.Source{Name: "rabbitmq url", Env: "RABBITMQ_URL", Value: cfg.URL})
	if err != nil {
		return err
	}

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	processor := worker.NewProcessor(s, d.builder(ctx), d.logger)
	consumer := worker.NewConsumer(worker.Config{
		URL:          url,
		Queue:        cfg.Queue,
		Exchange:     cfg.Exchange,
		Workers:      cfg.Workers,
		DialAttempts: cfg.DialAttempts,
	}, processor, d.logger)

	d.logger.Info("starting the worker", zap.String("version", version))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	d.logger.Info("worker stopped")
	return nil
}

func seedDatabase(ctx context.Context, cmd *cobra.Command, d *deps) error {
	path, _ := cmd.Flags().GetString("file")

	cfg := d.config.Database
	if cfg != nil && cfg.Driver != "" && !strings.HasPrefix(strings.ToLower(cfg.Driver), "sqlite") {
		return fmt.Errorf("seed supports sqlite only, configured driver is %s", cfg.Driver)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	var fixture store.Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}

	s, err := d.openStore(ctx)
	if err != nil {
		return err
	}
	sqlite, ok := s.(*store.SQLite)
	if !ok {
		return errors.New("configured store is not sqlite")
	}
	if err := sqlite.Load(ctx, fixture); err != nil {
		return err
	}

	d.logger.Info("fixture loaded",
		zap.String("file", path),
		zap.Int("profiles", len(fixture.Profiles)),
		zap.Int("jobs", len(fixture.Jobs)),
	)
	return nil
}
