package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Muxer combines video, audio and subtitle streams into an output file.
type Muxer interface {
	BurnSubtitles(ctx context.Context, videoPath, subtitlePath, outputPath string, style SubtitleStyle) error
	Mux(ctx context.Context, videoPath, audioPath, outputPath string) error
}

// FFmpeg shells out to the ffmpeg binary. A non-zero exit is surfaced as an
// error carrying the tail of stderr.
type FFmpeg struct {
	bin    string
	logger zerolog.Logger
}

// NewFFmpeg constructs the wrapper. An empty bin falls back to "ffmpeg" on
// PATH.
func NewFFmpeg(bin string, logger zerolog.Logger) *FFmpeg {
	if strings.TrimSpace(bin) == "" {
		bin = "ffmpeg"
	}
	return &FFmpeg{bin: bin, logger: logger}
}

// BurnSubtitles renders the subtitle file into the video stream.
func (f *FFmpeg) BurnSubtitles(ctx context.Context, videoPath, subtitlePath, outputPath string, style SubtitleStyle) error {
	filter := fmt.Sprintf("subtitles=%s:force_style='%s'", escapeFilterPath(subtitlePath), style.ForceStyle())
	args := []string{
		"-i", videoPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "23",
		"-c:a", "copy",
		"-y",
		outputPath,
	}
	return f.run(ctx, args)
}

// Mux combines a video stream and an audio stream into one file. An empty
// audioPath degrades to a stream copy.
func (f *FFmpeg) Mux(ctx context.Context, videoPath, audioPath, outputPath string) error {
	var args []string
	if audioPath == "" {
		args = []string{"-i", videoPath, "-c", "copy", "-y", outputPath}
	} else {
		args = []string{
			"-i", videoPath,
			"-i", audioPath,
			"-c:v", "copy",
			"-c:a", "aac",
			"-b:a", "192k",
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-shortest",
			"-y",
			outputPath,
		}
	}
	return f.run(ctx, args)
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, f.bin, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	f.logger.Debug().Strs("args", args).Msg("ffmpeg: run")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(stderr.String(), 500))
	}
	return nil
}

// escapeFilterPath escapes characters that the ffmpeg filter parser treats
// specially inside a filter argument.
func escapeFilterPath(path string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
	)
	return replacer.Replace(path)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

var _ Muxer = (*FFmpeg)(nil)
