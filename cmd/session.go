package cmd

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"

	"github.com/blockscope/blockscope/internal/device"
	"github.com/blockscope/blockscope/internal/interfaces"
	"github.com/blockscope/blockscope/internal/logging"
	"github.com/blockscope/blockscope/internal/services"
)

// openSession opens the evidence image and builds a session around it. The
// returned cleanup closes both.
func openSession(imagePath string) (*services.Session, func(), error) {
	cfg, err := device.LoadEngineConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = zapcore.DebugLevel
	}
	if quiet {
		level = zapcore.ErrorLevel
	}
	log := logging.NewLogger("blockscope", level)

	source := device.NewRawImage(imagePath)
	if err := source.Open(); err != nil {
		return nil, nil, err
	}

	session, err := services.NewSession(source, cfg, log)
	if err != nil {
		source.Close()
		return nil, nil, err
	}

	cleanup := func() {
		session.Close()
		source.Close()
	}
	return session, cleanup, nil
}

// runPass executes one analysis pass on the session's background worker and
// drains its progress events to stderr until the pass finishes.
func runPass(session *services.Session, pass func(ctx context.Context, progress interfaces.ProgressSink) error) error {
	sink, events, closeSink := services.ChannelSink(64)

	done := make(chan error, 1)
	if err := session.Go(func() {
		defer closeSink()
		done <- pass(context.Background(), sink)
	}); err != nil {
		return fmt.Errorf("failed to submit pass: %w", err)
	}

	for event := range events {
		if !quiet {
			fmt.Fprintf(os.Stderr, "\r[%5.1f%%] %s", event.Percentage, event.Message)
		}
	}
	if !quiet {
		fmt.Fprintln(os.Stderr)
	}
	return <-done
}

// analyzeWithProgress runs the block analysis pass and returns the count.
func analyzeWithProgress(session *services.Session) (int, error) {
	var count int
	err := runPass(session, func(ctx context.Context, progress interfaces.ProgressSink) error {
		n, err := session.AnalyzeBlocks(ctx, progress)
		count = n
		return err
	})
	return count, err
}

// correlateWithProgress runs the correlation pass and returns the count.
func correlateWithProgress(session *services.Session) (int, error) {
	var count int
	err := runPass(session, func(ctx context.Context, progress interfaces.ProgressSink) error {
		n, err := session.CorrelateBlocks(ctx, progress)
		count = n
		return err
	})
	return count, err
}
