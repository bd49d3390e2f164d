// Package pipeline wires the daily run together: fetch, curate,
// script, synthesize, estimate, deliver. Each run is stateless; nothing
// survives between invocations.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Vicking28/daily-ai-news/internal/archive"
	"github.com/Vicking28/daily-ai-news/internal/audio"
	"github.com/Vicking28/daily-ai-news/internal/config"
	"github.com/Vicking28/daily-ai-news/internal/curator"
	"github.com/Vicking28/daily-ai-news/internal/feed"
	"github.com/Vicking28/daily-ai-news/internal/mail"
	"github.com/Vicking28/daily-ai-news/internal/notify"
	"github.com/Vicking28/daily-ai-news/internal/script"
	"github.com/Vicking28/daily-ai-news/internal/speech"
)

// ErrRunInProgress rejects a trigger that overlaps a running pipeline.
// Overlapping runs would race on the same mailbox and episode naming.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// Deps are the pipeline's collaborators, all injected so the run can be
// exercised without any live service.
type Deps struct {
	Config   *config.Config
	Fetcher  feed.Fetcher
	Curator  *curator.Curator
	Script   *script.Generator
	Synth    speech.Synthesizer
	Sender   mail.Sender
	Notifier notify.Notifier
	Uploader archive.Uploader // optional
	Log      *zap.SugaredLogger
}

type Pipeline struct {
	deps    Deps
	running atomic.Bool
}

func New(deps Deps) *Pipeline {
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	return &Pipeline{deps: deps}
}

// RunOptions tweak a single invocation.
type RunOptions struct {
	// DryRun stops after script generation: no TTS, no delivery.
	DryRun bool
	// Recipients overrides the configured recipient list.
	Recipients []string
}

// Result summarizes a completed run.
type Result struct {
	Stories     int
	Script      string
	DurationSec int
	MessageID   string
}

// Run executes one full pipeline pass. A second trigger while a run is
// in flight gets ErrRunInProgress instead of racing it.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer p.running.Store(false)

	res, err := p.run(ctx, opts)
	if err != nil {
		p.notifyBestEffort(ctx, notify.SeverityError, "daily run failed",
			map[string]string{"error": err.Error()})
		return nil, err
	}
	if !opts.DryRun {
		p.notifyBestEffort(ctx, notify.SeveritySuccess, "episode delivered", map[string]string{
			"stories":  fmt.Sprintf("%d", res.Stories),
			"duration": fmt.Sprintf("%ds", res.DurationSec),
		})
	}
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, opts RunOptions) (*Result, error) {
	d := p.deps

	recipients := opts.Recipients
	if len(recipients) == 0 {
		recipients = d.Config.Mail.Recipients
	}
	// Configuration errors surface before any network activity.
	if !opts.DryRun {
		if d.Sender == nil {
			return nil, fmt.Errorf("mail delivery not configured")
		}
		if len(recipients) == 0 {
			return nil, fmt.Errorf("no recipients configured")
		}
	}

	articles := feed.FetchAll(ctx, d.Fetcher, d.Config.Feeds, d.Log)
	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles fetched from any feed")
	}
	d.Log.Infow("feeds fetched", "articles", len(articles), "feeds", len(d.Config.Feeds))

	selected, err := d.Curator.Curate(ctx, articles, d.Config.MaxStories())
	if err != nil {
		return nil, fmt.Errorf("curating articles: %w", err)
	}

	text, err := d.Script.Generate(ctx, selected)
	if err != nil {
		return nil, fmt.Errorf("generating script: %w", err)
	}

	res := &Result{Stories: len(selected), Script: text}
	if opts.DryRun {
		d.Log.Infow("dry run complete", "stories", res.Stories)
		return res, nil
	}

	audioData, err := speech.SynthesizeScript(ctx, d.Synth, text, d.Log)
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	res.DurationSec = audio.Duration(ctx, audioData, d.Log)

	episodeDate := d.Script.EpisodeDate()
	dateLabel := d.Script.DateLabel()
	audioName := fmt.Sprintf("ai-news-%s.mp3", episodeDate.Format("2006-01-02"))
	scriptName := fmt.Sprintf("ai-news-%s.txt", episodeDate.Format("2006-01-02"))

	to, bcc := mail.SplitRecipients(recipients)
	msg := mail.Message{
		Subject:  "AI News Podcast - " + dateLabel,
		HTMLBody: buildHTMLBody(dateLabel, res.DurationSec, res.Stories, text),
		To:       to,
		Bcc:      bcc,
		Attachments: []mail.Attachment{
			{Name: audioName, Data: audioData},
			{Name: scriptName, Data: []byte(text)},
		},
	}
	msgID, err := d.Sender.Send(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("delivering episode: %w", err)
	}
	res.MessageID = msgID
	d.Log.Infow("episode delivered",
		"message_id", msgID, "to", to, "bcc", len(bcc),
		"duration_sec", res.DurationSec, "audio_bytes", len(audioData))

	if d.Uploader != nil {
		if fileID, err := d.Uploader.Upload(ctx, audioName, "audio/mpeg", audioData); err != nil {
			d.Log.Warnw("episode archive upload failed", "error", err)
		} else {
			d.Log.Infow("episode archived", "file_id", fileID)
		}
	}

	return res, nil
}

func (p *Pipeline) notifyBestEffort(ctx context.Context, severity notify.Severity, message string, fields map[string]string) {
	// Notification is observational; a dead webhook must not change the
	// run's outcome. Use a fresh timeout in case ctx is already done.
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := p.deps.Notifier.Notify(nctx, severity, message, fields); err != nil {
		p.deps.Log.Warnw("notification failed", "severity", severity, "error", err)
	}
}

func buildHTMLBody(dateLabel string, durationSec, stories int, scriptText string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	fmt.Fprintf(&sb, "<h2>AI News Podcast - %s</h2>", html.EscapeString(dateLabel))
	fmt.Fprintf(&sb, "<p>%d stories, about %d:%02d of audio. The episode and full script are attached.</p>",
		stories, durationSec/60, durationSec%60)
	sb.WriteString("<hr>")
	for _, para := range strings.Split(scriptText, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&sb, "<p>%s</p>", html.EscapeString(para))
	}
	sb.WriteString("</body></html>")
	return sb.String()
}
