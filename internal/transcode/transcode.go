// Package transcode runs the ffmpeg binary for version probes and one-shot
// conversions. Every call starts exactly one process and honors ctx.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ClipDuration is the length of clips produced by the clip command.
const ClipDuration = 8 * time.Second

// Runner invokes a configured ffmpeg binary.
type Runner struct {
	ffmpegPath string
	log        logrus.FieldLogger
}

// NewRunner creates a runner for the binary at ffmpegPath, resolved through PATH
// when it has no directory component.
func NewRunner(ffmpegPath string, log logrus.FieldLogger) *Runner {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Runner{ffmpegPath: ffmpegPath, log: log}
}

// VersionInfo is the outcome of `ffmpeg -version`.
type VersionInfo struct {
	Code        int     `json:"code"`
	VersionLine string  `json:"versionLine"`
	StderrFirst *string `json:"stderrFirst"`
}

// ExitError reports a non-zero ffmpeg exit.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("ffmpeg exited with code %d", e.Code)
}

// Version runs `ffmpeg -version`. A binary that starts but exits non-zero is
// reported through VersionInfo.Code; only a failure to start is an error.
func (r *Runner) Version(ctx context.Context) (*VersionInfo, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.ffmpegPath, "-version")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	info := &VersionInfo{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run %s: %w", r.ffmpegPath, err)
		}
		info.Code = exitErr.ExitCode()
	}

	info.VersionLine = firstLine(stdout.String())
	if stderr.Len() > 0 {
		line := firstLine(stderr.String())
		info.StderrFirst = &line
	}
	return info, nil
}

// ConvertOptions describes a single ffmpeg invocation. Zero values leave the
// corresponding flag out.
type ConvertOptions struct {
	Input      string
	Output     string
	Start      time.Duration
	Duration   time.Duration
	VideoCodec string
	AudioCodec string
	Preset     string
	CRF        int
}

// SimpleConvert is the libx264 veryfast re-encode used by the convert endpoint.
func SimpleConvert(input, output string) ConvertOptions {
	return ConvertOptions{Input: input, Output: output, VideoCodec: "libx264", Preset: "veryfast"}
}

// Clip is an 8 second libx264/aac excerpt from the start of input.
func Clip(input, output string) ConvertOptions {
	return ConvertOptions{
		Input:      input,
		Output:     output,
		Start:      0,
		Duration:   ClipDuration,
		VideoCodec: "libx264",
		AudioCodec: "aac",
		Preset:     "veryfast",
		CRF:        23,
	}
}

// Args renders the ffmpeg command line, output always overwritten.
func (o ConvertOptions) Args() []string {
	var args []string
	if o.Duration > 0 || o.Start > 0 {
		args = append(args, "-ss", seconds(o.Start))
	}
	args = append(args, "-i", o.Input)
	if o.Duration > 0 {
		args = append(args, "-t", seconds(o.Duration))
	}
	if o.VideoCodec != "" {
		args = append(args, "-c:v", o.VideoCodec)
	}
	if o.AudioCodec != "" {
		args = append(args, "-c:a", o.AudioCodec)
	}
	if o.Preset != "" {
		args = append(args, "-preset", o.Preset)
	}
	if o.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(o.CRF))
	}
	return append(args, "-y", o.Output)
}

// Convert runs ffmpeg once with opts. A non-zero exit is returned as *ExitError.
func (r *Runner) Convert(ctx context.Context, opts ConvertOptions) error {
	if opts.Input == "" || opts.Output == "" {
		return errors.New("convert: input and output are required")
	}

	args := opts.Args()
	log := r.log.WithFields(logrus.Fields{"input": opts.Input, "output": opts.Output})
	log.WithField("args", strings.Join(args, " ")).Debug("ffmpeg start")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			log.WithField("stderr", lastLine(stderr.String())).Warn("ffmpeg failed")
			return &ExitError{Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return fmt.Errorf("run %s: %w", r.ffmpegPath, err)
	}

	log.WithField("elapsed_ms", time.Since(start).Milliseconds()).Info("ffmpeg done")
	return nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
