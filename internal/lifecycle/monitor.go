package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"

	"sharegarden/config"
)

// Terminator requests process shutdown. fx.Shutdowner satisfies it.
type Terminator interface {
	Shutdown(...fx.ShutdownOption) error
}

// Monitor drives the supervisor on a fixed tick and asks the process to
// exit when the supervisor says so.
type Monitor struct {
	supervisor *Supervisor
	terminator Terminator
	logger     *slog.Logger
	tick       time.Duration
	done       chan struct{}
}

// Params defines the dependencies for creating the monitor.
type Params struct {
	fx.In

	Config     *config.Config
	Supervisor *Supervisor
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Lifecycle  fx.Lifecycle
}

// NewMonitor wires the monitor into the application lifecycle. When the
// supervisor is disabled in config the monitor is inert; the process then
// only exits on an operator signal.
func NewMonitor(params Params) *Monitor {
	m := &Monitor{
		supervisor: params.Supervisor,
		terminator: params.Shutdowner,
		logger:     params.Logger,
		tick:       params.Config.Supervisor.TickInterval,
		done:       make(chan struct{}),
	}

	if !params.Config.Supervisor.Enabled {
		params.Logger.Info("lifecycle supervisor disabled")

		return m
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go m.run()

			return nil
		},
		OnStop: func(context.Context) error {
			close(m.done)

			return nil
		},
	})

	return m
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			if m.supervisor.Evaluate(now) != ActionTerminate {
				continue
			}

			m.logger.Info("client gone, shutting down",
				slog.String("state", m.supervisor.State().String()))
			if err := m.terminator.Shutdown(); err != nil {
				m.logger.Error("request shutdown", slog.Any("error", err))
			}

			return
		}
	}
}
