package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Vicking28/daily-ai-news/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
feeds:
  - https://example.com/feed.xml
ai:
  provider: openai
mail:
  host: smtp.example.com
  from: bot@example.com
  recipients: [to@example.com]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestAssemblePipelineMissingAIKey(t *testing.T) {
	t.Setenv("DAILYNEWS_AI_KEY", "")
	t.Setenv("DAILYNEWS_TTS_KEY", "")

	_, err := assemblePipeline(testConfig(t), zap.NewNop().Sugar(), false)
	if err == nil {
		t.Fatal("expected configuration error for missing AI key")
	}
}

func TestAssemblePipelineDryRunNeedsNoTTSOrMail(t *testing.T) {
	t.Setenv("DAILYNEWS_AI_KEY", "test-key")

	cfg := testConfig(t)
	cfg.Mail = config.MailConfig{}

	if _, err := assemblePipeline(cfg, zap.NewNop().Sugar(), true); err != nil {
		t.Errorf("dry-run assembly should not require TTS or mail config: %v", err)
	}
}

func TestAssemblePipelineFull(t *testing.T) {
	t.Setenv("DAILYNEWS_AI_KEY", "test-key")
	t.Setenv("DAILYNEWS_SMTP_PASSWORD", "secret")

	p, err := assemblePipeline(testConfig(t), zap.NewNop().Sugar(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil {
		t.Fatal("expected assembled pipeline")
	}
}
