package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/expenses/config"
	"github.com/robinvdvleuten/expenses/ledger"
	"github.com/robinvdvleuten/expenses/report"
	"github.com/robinvdvleuten/expenses/store"
	"github.com/robinvdvleuten/expenses/telemetry"
	"github.com/robinvdvleuten/expenses/theme"
)

// session bundles what a command needs: configuration, logger, the opened
// ledger and output styles.
type session struct {
	ctx        context.Context
	cancel     context.CancelFunc
	kctx       *kong.Context
	cfg        config.Config
	configPath string
	logger     zerolog.Logger
	store      *store.Store
	ledger     *ledger.Ledger
	styles     *theme.Styles
	currency   report.Currency
	collector  telemetry.Collector
	rootTimer  telemetry.Timer
}

// now is the clock used for new records and report timestamps.
var now = time.Now

// newLogger builds a console logger writing to the command's stderr.
func newLogger(kctx *kong.Context, level string) (zerolog.Logger, error) {
	lvl := zerolog.WarnLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
		}
		lvl = parsed
	}

	out := zerolog.ConsoleWriter{Out: kctx.Stderr, TimeFormat: time.Kitchen, NoColor: !isTerminalWriter(kctx.Stderr)}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// open resolves configuration and loads the ledger. The name labels the
// telemetry root timer.
func (g *Globals) open(kctx *kong.Context, name string) (*session, error) {
	logger, err := newLogger(kctx, g.LogLevel)
	if err != nil {
		return nil, err
	}

	configPath := g.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return nil, err
	}

	if g.LogLevel == "" && cfg.LogLevel != "" {
		if logger, err = newLogger(kctx, cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	if g.File != "" {
		cfg.File = g.File
	}
	if g.ThemeName != "" {
		cfg.Theme = g.ThemeName
	}

	themeName, err := theme.Parse(cfg.Theme)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	s := &session{
		ctx:        ctx,
		cancel:     cancel,
		kctx:       kctx,
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		styles:     theme.New(kctx.Stdout, themeName),
		currency:   report.NewCurrency(cfg.Currency),
	}

	if g.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
		s.rootTimer = s.collector.Start(fmt.Sprintf("%s %s", name, filepath.Base(cfg.File)))
		s.ctx = telemetry.WithRootTimer(s.ctx, s.rootTimer)
	}

	s.store = store.New(cfg.File, store.WithLogger(logger))
	s.ledger = ledger.Open(s.ctx, s.store,
		ledger.WithLogger(logger),
		ledger.WithClock(now),
	)

	return s, nil
}

// close reports telemetry and releases the signal handler.
func (s *session) close() {
	if s.collector != nil {
		s.rootTimer.End()
		_, _ = fmt.Fprintln(s.kctx.Stderr)
		s.collector.Report(s.kctx.Stderr)
	}
	s.cancel()
}
