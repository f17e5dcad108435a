// cmd/twiirl/main.go
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/twiirl/internal/config"
	"github.com/tamzrod/twiirl/internal/poller"
	"github.com/tamzrod/twiirl/internal/report"
	"github.com/tamzrod/twiirl/internal/wiimote"
	"github.com/tamzrod/twiirl/internal/writer"
)

func main() {
	// --------------------
	// Load + validate config
	// --------------------

	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.Load(os.Args[1])
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		cfg = loaded
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	logger, err := newLogger(cfg.Twiirl.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Device backend
	// --------------------

	svc, err := wiimote.New(wiimote.Config{
		Capacity:    cfg.Twiirl.Capacity,
		PollTimeout: cfg.Twiirl.PollTimeout(),
	}, logger)
	if err != nil {
		log.Fatalf("device backend init failed: %v", err)
	}

	// ---- register mirror (optional) ----
	var obs poller.Observer
	if m := cfg.Twiirl.Mirror; m != nil {
		mirror, closeMirror, err := writer.Build(*m, cfg.Twiirl.Capacity, logger)
		if err != nil {
			logger.Warnw("Mirror disabled", "endpoint", m.Endpoint, "error", err)
		} else {
			defer closeMirror()
			obs = mirror
		}
	}

	p, err := poller.Build(cfg.Twiirl, svc, report.New(os.Stdout), logger, obs)
	if err != nil {
		log.Fatalf("poller build failed: %v", err)
	}

	// --------------------
	// Run until every remote is gone
	// --------------------

	err = p.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, poller.ErrNoDevicesFound), errors.Is(err, poller.ErrNoDevicesConnected):
		logger.Sync()
		os.Exit(1)
	default:
		logger.Errorw("Poll loop failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

// newLogger builds a console logger on stderr so stdout stays the report stream.
func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Development = false
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
