// Package audio derives playback duration from an encoded audio buffer.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// estimateBytesPerMinute is the size heuristic used when probing is
// unavailable: roughly 320 KiB of MP3 per minute.
const estimateBytesPerMinute = 320 * 1024

// Duration returns the playback length in whole seconds. It probes with
// ffprobe when present and falls back to the size heuristic on any
// probe failure. Best-effort: never returns an error, never negative.
func Duration(ctx context.Context, data []byte, log *zap.SugaredLogger) int {
	secs, err := probe(ctx, data)
	if err != nil {
		log.Debugw("duration probe failed, using size estimate", "error", err)
		return Estimate(len(data))
	}
	return secs
}

func probe(ctx context.Context, data []byte) (int, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return 0, fmt.Errorf("ffprobe not installed: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", "pipe:0")
	cmd.Stdin = bytes.NewReader(data)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing ffprobe output %q: %w", strings.TrimSpace(string(out)), err)
	}
	if secs < 0 {
		return 0, nil
	}
	return int(math.Round(secs)), nil
}

// Estimate converts an MP3 byte size into seconds using the constant
// bitrate heuristic. 640 KiB comes out as ~120 seconds.
func Estimate(sizeBytes int) int {
	if sizeBytes <= 0 {
		return 0
	}
	return int(math.Round(float64(sizeBytes) / estimateBytesPerMinute * 60))
}
