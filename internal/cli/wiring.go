package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rcliao/captains-log/internal/config"
	"github.com/rcliao/captains-log/internal/schedule"
	"github.com/rcliao/captains-log/internal/session"
	"github.com/rcliao/captains-log/internal/sound"
	"github.com/rcliao/captains-log/internal/speech"
	"github.com/rcliao/captains-log/internal/speech/daemon"
	"github.com/rcliao/captains-log/internal/store"
	"github.com/rcliao/captains-log/internal/transcript"
)

// newRecognizer builds the configured speech source. stdin is only read by
// the stdin source.
func newRecognizer(source string, stdin io.Reader) (speech.Recognizer, error) {
	switch source {
	case config.SourceDaemon:
		sock := cfg.Socket
		if sock == "" {
			sock = daemon.SocketPath()
		}
		return daemon.New(sock, logger), nil
	case config.SourceStdin:
		return speech.NewLineRecognizer(stdin), nil
	}
	return nil, fmt.Errorf("unknown recognizer %q", source)
}

// pipeline is a session manager and transcript controller over one store.
type pipeline struct {
	mgr  *session.Manager
	ctrl *transcript.Controller
}

func newPipeline(ctx context.Context, rec speech.Recognizer, s store.Storage, limit time.Duration) (*pipeline, error) {
	mgr := session.New(rec, session.WithLogger(logger))
	ctrl, err := transcript.New(ctx, mgr, s,
		transcript.WithLimit(limit),
		transcript.WithLogger(logger),
		transcript.WithScheduler(schedule.Real{}),
	)
	if err != nil {
		return nil, err
	}
	return &pipeline{mgr: mgr, ctrl: ctrl}, nil
}

func (p *pipeline) Close() {
	p.ctrl.Close()
	if err := p.mgr.Close(); err != nil {
		logger.Debug("close session", "err", err)
	}
}

func newPlayer() *sound.Player {
	return sound.New(cfg.Sound, schedule.Real{}, logger)
}
