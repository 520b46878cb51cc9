package robot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/ev3"
	"github.com/gwillem/brickctl/pkg/framelog"
	"github.com/gwillem/brickctl/pkg/nxt"
	"github.com/gwillem/brickctl/pkg/transport"
)

type connectOptions struct {
	logger  *slog.Logger
	channel transport.Channel
}

type Option func(*connectOptions)

// WithLogger sets the logger handed to the session.
func WithLogger(logger *slog.Logger) Option {
	return func(o *connectOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithChannel uses an already open channel instead of opening cfg.Port.
func WithChannel(ch transport.Channel) Option {
	return func(o *connectOptions) {
		o.channel = ch
	}
}

// Connect opens a session for the configured device class. Failures to reach
// the brick wrap brick.ErrConnectionFailed.
func Connect(ctx context.Context, cfg Config, opts ...Option) (brick.Device, error) {
	o := connectOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := o.logger.With("class", string(cfg.Class), "port", cfg.Port)

	ch := o.channel
	if ch == nil {
		var err error
		ch, err = openChannel(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w: %w", cfg.Port, brick.ErrConnectionFailed, err)
		}
	}
	logger.Info("port open")

	linkOpts := []transport.Option{transport.WithLogger(logger)}
	if cfg.FrameLog != "" {
		fl, err := framelog.Open(cfg.FrameLog)
		if err != nil {
			ch.Close()
			return nil, fmt.Errorf("connect %s: %w: %w", cfg.Port, brick.ErrConnectionFailed, err)
		}
		linkOpts = append(linkOpts, transport.WithRecorder(fl))
	}
	link := transport.NewLink(ch, linkOpts...)

	scales := cfg.Calibration.Scales(Outputs(cfg.Class))
	switch cfg.Class {
	case brick.ClassNXT:
		dev := nxt.New(link,
			nxt.WithLogger(logger),
			nxt.WithDelay(cfg.Delay()),
			nxt.WithScales(scales...),
			nxt.WithAckLimit(cfg.AckMaxPolls, cfg.AckInterval()),
		)
		if cfg.AutoStart {
			if err := dev.Start(ctx, cfg.Program, true); err != nil {
				dev.Disconnect()
				return nil, fmt.Errorf("connect %s: %w: %w", cfg.Port, brick.ErrConnectionFailed, err)
			}
		}
		return dev, nil
	default:
		return ev3.New(link,
			ev3.WithLogger(logger),
			ev3.WithDelay(cfg.Delay()),
			ev3.WithScales(scales...),
		), nil
	}
}

func openChannel(cfg Config) (transport.Channel, error) {
	if cfg.Port == DryRunPort {
		if cfg.Class == brick.ClassNXT {
			return transport.NewScript(nxt.DryRunReply), nil
		}
		return transport.NewScript(ev3.DryRunReply), nil
	}

	parity := transport.NoParity
	if cfg.Class == brick.ClassNXT {
		parity = transport.EvenParity
	}
	return transport.OpenSerial(transport.SerialConfig{
		Port:        cfg.Port,
		BaudRate:    cfg.BaudRate,
		Parity:      parity,
		ReadTimeout: cfg.ReadTimeout(),
	})
}
