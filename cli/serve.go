package cli

import (
	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/expenses/web"
)

type ServeCmd struct {
	Host     string `help:"Address to listen on (defaults to serve.host from the config)."`
	Port     int    `help:"Port to listen on (defaults to serve.port from the config)." short:"p"`
	ReadOnly bool   `help:"Enable read-only mode (no write operations allowed)." short:"r"`
	Watch    bool   `help:"Reload when the data file is changed by another program." short:"w"`
}

func (cmd *ServeCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "serve")
	if err != nil {
		return err
	}
	defer s.close()

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	port := cmd.Port
	if port == 0 {
		port = s.cfg.Serve.Port
	}

	server := web.NewWithVersion(port, s.store, version, commitSHA)
	if cmd.Host != "" {
		server.Host = cmd.Host
	} else if s.cfg.Serve.Host != "" {
		server.Host = s.cfg.Serve.Host
	}
	server.ReadOnly = cmd.ReadOnly
	server.WatchEnabled = cmd.Watch
	server.Currency = s.currency
	server.Logger = s.logger.With().Str("component", "web").Logger()
	server.UseLedger(s.ledger)

	printInfof(ctx.Stdout, "Starting server on http://%s", server.Addr())
	printInfof(ctx.Stdout, "Serving expenses: %s", pathStyle.Render(s.store.Path()))

	if cmd.ReadOnly {
		printInfof(ctx.Stdout, "Server running in READ-ONLY mode")
	}

	return server.Start(s.ctx)
}
