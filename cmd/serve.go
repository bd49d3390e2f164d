package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/Vicking28/daily-ai-news/internal/config"
	"github.com/Vicking28/daily-ai-news/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline on the configured daily schedule",
	Long: `Start a scheduler that triggers the pipeline at the configured cron
schedule, evaluated in the configured timezone. Blocks until killed.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger(flagDebug)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.Load(flagConfig, log)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	p, err := assemblePipeline(cfg, log, false)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.TimezoneName())
	if err != nil {
		return fmt.Errorf("loading timezone %s: %w", cfg.TimezoneName(), err)
	}

	scheduler := cron.New(cron.WithLocation(loc))
	_, err = scheduler.AddFunc(cfg.ScheduleSpec(), func() {
		if _, err := p.Run(context.Background(), pipeline.RunOptions{}); err != nil {
			if errors.Is(err, pipeline.ErrRunInProgress) {
				log.Warnw("scheduled trigger overlapped a running pipeline, skipped")
				return
			}
			log.Errorw("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.ScheduleSpec(), err)
	}

	log.Infow("scheduler started", "schedule", cfg.ScheduleSpec(), "timezone", cfg.TimezoneName())
	scheduler.Run()
	return nil
}
