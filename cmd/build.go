package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Vicking28/daily-ai-news/internal/ai"
	"github.com/Vicking28/daily-ai-news/internal/archive"
	"github.com/Vicking28/daily-ai-news/internal/config"
	"github.com/Vicking28/daily-ai-news/internal/curator"
	"github.com/Vicking28/daily-ai-news/internal/feed"
	"github.com/Vicking28/daily-ai-news/internal/mail"
	"github.com/Vicking28/daily-ai-news/internal/notify"
	"github.com/Vicking28/daily-ai-news/internal/pipeline"
	"github.com/Vicking28/daily-ai-news/internal/script"
	"github.com/Vicking28/daily-ai-news/internal/speech"
)

// buildPipeline loads config and assembles the pipeline with all its
// collaborators. Missing credentials are configuration errors, caught
// here before any network activity.
func buildPipeline(configPath string, log *zap.SugaredLogger, dryRun bool) (*pipeline.Pipeline, error) {
	cfg, err := config.Load(configPath, log)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return assemblePipeline(cfg, log, dryRun)
}

func assemblePipeline(cfg *config.Config, log *zap.SugaredLogger, dryRun bool) (*pipeline.Pipeline, error) {
	aiKey := cfg.AIKey()
	if aiKey == "" {
		return nil, fmt.Errorf("missing AI API key (set ai.api_key or DAILYNEWS_AI_KEY)")
	}
	oracle, err := ai.New(cfg.AI.Provider, cfg.AI.Model, aiKey)
	if err != nil {
		return nil, err
	}

	gen, err := script.New(oracle, log)
	if err != nil {
		return nil, err
	}

	deps := pipeline.Deps{
		Config:  cfg,
		Fetcher: feed.NewRSSFetcher(),
		Curator: curator.New(oracle, log),
		Script:  gen,
		Log:     log,
	}

	if !dryRun {
		ttsKey := cfg.TTSKey()
		if ttsKey == "" {
			return nil, fmt.Errorf("missing TTS API key (set tts.api_key or DAILYNEWS_TTS_KEY)")
		}
		deps.Synth = speech.NewOpenAISynthesizer(ttsKey, cfg.TTS.Model, cfg.TTS.Voice)

		if cfg.Mail.Host == "" || cfg.Mail.From == "" {
			return nil, fmt.Errorf("mail delivery not configured (mail.host and mail.from required)")
		}
		deps.Sender = mail.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port,
			cfg.Mail.Username, cfg.SMTPPassword(), cfg.Mail.From)
	}

	if hook := cfg.DiscordWebhook(); hook != "" {
		deps.Notifier = notify.NewDiscordWebhook(hook, cfg.Discord.MentionUserID)
	}

	if cfg.Drive.Enabled {
		uploader, err := archive.NewDriveUploader(context.Background(), cfg.Drive.CredentialsFile, cfg.Drive.FolderID)
		if err != nil {
			return nil, fmt.Errorf("drive uploader: %w", err)
		}
		deps.Uploader = uploader
	}

	return pipeline.New(deps), nil
}
