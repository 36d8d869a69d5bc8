package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/muesli/termenv"

	"github.com/robinvdvleuten/expenses/config"
	"github.com/robinvdvleuten/expenses/theme"
)

type ThemeCmd struct {
	Name string `arg:"" optional:"" enum:"dark,light,auto,toggle," default:"" help:"Theme to use: dark, light, auto or toggle."`
}

func (cmd *ThemeCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx, "theme")
	if err != nil {
		return err
	}
	defer s.close()

	current, err := theme.Parse(s.cfg.Theme)
	if err != nil {
		return err
	}

	if cmd.Name == "" {
		printInfof(ctx.Stdout, "Current theme: %s", current)
		return nil
	}

	next := theme.Name(cmd.Name)
	if cmd.Name == "toggle" {
		next = current.Toggle(termenv.NewOutput(ctx.Stdout).HasDarkBackground)
	}

	if err := config.SaveTheme(s.configPath, string(next)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	styles := theme.New(ctx.Stdout, next)
	printSuccess(ctx.Stdout, fmt.Sprintf("Theme set to %s in %s", styles.Accent.Render(string(next)), pathStyle.Render(s.configPath)))
	return nil
}
