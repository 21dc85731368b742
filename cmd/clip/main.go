// Command clip cuts an 8 second libx264/aac excerpt from the start of a video.
//
//	clip input.mp4 [out.mp4]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"reelforge/internal/config"
	"reelforge/internal/logging"
	"reelforge/internal/transcode"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: clip input.mp4 [out.mp4]")
		os.Exit(1)
	}
	input, output := os.Args[1], "out.mp4"
	if len(os.Args) > 2 {
		output = os.Args[2]
	}

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := transcode.NewRunner(cfg.FFmpegPath, log)
	if err := runner.Convert(ctx, transcode.Clip(input, output)); err != nil {
		log.WithError(err).Fatal("clip failed")
	}
	fmt.Println("done ->", output)
}
