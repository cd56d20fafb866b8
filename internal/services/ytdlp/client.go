package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"vidchat/internal/logging"
)

// DefaultBinary is the command used when no binary is configured.
const DefaultBinary = "yt-dlp"

// Audio post-processing applied by ffmpeg after download: loudness
// normalization, leading silence removal, 16 kHz mono.
const (
	AudioFormat       = "bestaudio/best"
	AudioCodec        = "mp3"
	AudioQuality      = "32"
	AudioPostArgs     = "ffmpeg:-af loudnorm,silenceremove=1:0:-50dB -ar 16000 -ac 1"
	audioOutputName   = "audio.%(ext)s"
	captionOutputName = "sub.%(ext)s"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Client invokes yt-dlp.
type Client struct {
	binary  string
	run     Runner
	retries uint64
	policy  func() backoff.BackOff
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces command execution (for testing).
func WithRunner(run Runner) Option {
	return func(c *Client) {
		if run != nil {
			c.run = run
		}
	}
}

// WithListRetries sets how many times a failed metadata listing is retried.
func WithListRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = uint64(n)
		}
	}
}

// WithBackOff overrides the retry schedule for metadata listing.
func WithBackOff(policy func() backoff.BackOff) Option {
	return func(c *Client) {
		if policy != nil {
			c.policy = policy
		}
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "yt-dlp")
	}
}

// New constructs a client for the given binary.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = DefaultBinary
	}
	c := &Client{
		binary:  binary,
		run:     execRunner,
		retries: 2,
		policy:  func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured yt-dlp command.
func (c *Client) Binary() string { return c.binary }

// Info fetches video metadata without downloading media. Transient failures
// are retried with exponential backoff.
func (c *Client) Info(ctx context.Context, url string) (Info, error) {
	args := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		url,
	}
	var info Info
	attempt := 0
	op := func() error {
		attempt++
		out, err := c.run(ctx, c.binary, args...)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return backoff.Permanent(ctxErr)
			}
			c.logger.Debug("metadata listing failed",
				logging.Int("attempt", attempt),
				logging.Error(err),
			)
			return err
		}
		parsed, err := parseInfo(out)
		if err != nil {
			return backoff.Permanent(err)
		}
		info = parsed
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(c.policy(), c.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return Info{}, fmt.Errorf("yt-dlp info: %w", err)
	}
	return info, nil
}

// ListLanguages returns the video title and every caption language on
// offer, manual tracks first.
func (c *Client) ListLanguages(ctx context.Context, url string) (string, []string, error) {
	info, err := c.Info(ctx, url)
	if err != nil {
		return "", nil, err
	}
	return info.Title, info.Languages(), nil
}

// DownloadTrack downloads the caption track for lang into dir as WebVTT and
// returns the path of the written file.
func (c *Client) DownloadTrack(ctx context.Context, url, lang, dir string) (string, error) {
	if strings.TrimSpace(lang) == "" {
		return "", errors.New("yt-dlp subtitles: language required")
	}
	if dir == "" {
		return "", errors.New("yt-dlp subtitles: output directory required")
	}
	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", lang,
		"--sub-format", "vtt",
		"--no-playlist",
		"--no-warnings",
		"-o", filepath.Join(dir, captionOutputName),
		url,
	}
	if _, err := c.run(ctx, c.binary, args...); err != nil {
		return "", fmt.Errorf("yt-dlp subtitles %s: %w", lang, err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if err != nil {
		return "", fmt.Errorf("yt-dlp subtitles %s: %w", lang, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("yt-dlp subtitles %s: no caption file written", lang)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// AudioFile describes an audio download.
type AudioFile struct {
	Path     string
	Title    string
	Duration float64
}

// FetchAudio downloads the best audio stream into dir and transcodes it to a
// mono 16 kHz mp3. Metadata is read from the same invocation.
func (c *Client) FetchAudio(ctx context.Context, url, dir string) (AudioFile, error) {
	if dir == "" {
		return AudioFile{}, errors.New("yt-dlp audio: output directory required")
	}
	args := []string{
		"-f", AudioFormat,
		"--no-playlist",
		"--no-warnings",
		"--extract-audio",
		"--audio-format", AudioCodec,
		"--audio-quality", AudioQuality,
		"--postprocessor-args", AudioPostArgs,
		"--dump-single-json",
		"--no-simulate",
		"-o", filepath.Join(dir, audioOutputName),
		url,
	}
	out, err := c.run(ctx, c.binary, args...)
	if err != nil {
		return AudioFile{}, fmt.Errorf("yt-dlp audio: %w", err)
	}
	info, err := parseInfo(out)
	if err != nil {
		return AudioFile{}, fmt.Errorf("yt-dlp audio: %w", err)
	}
	path, err := findAudio(dir)
	if err != nil {
		return AudioFile{}, fmt.Errorf("yt-dlp audio: %w", err)
	}
	return AudioFile{Path: path, Title: info.Title, Duration: info.Duration}, nil
}

// findAudio locates the transcoded file, preferring the mp3 output over any
// intermediate download left behind.
func findAudio(dir string) (string, error) {
	preferred := filepath.Join(dir, "audio."+AudioCodec)
	if info, err := os.Stat(preferred); err == nil && !info.IsDir() {
		return preferred, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "audio.*"))
	if err != nil {
		return "", err
	}
	for _, match := range matches {
		if strings.HasSuffix(match, ".part") {
			continue
		}
		return match, nil
	}
	return "", errors.New("no audio file written")
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
