package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group ls output by active/completed")
	configPath := flag.String("config", "", "config file (default ~/.tada/config.toml)")
	theme := flag.String("theme", "", "color theme: "+strings.Join(ui.Themes(), ", "))
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cli.Run(ctx, flag.Args(), cli.Options{
		Group:      *groupPending,
		ConfigPath: *configPath,
		Theme:      *theme,
	})
	stop()
	os.Exit(code)
}
