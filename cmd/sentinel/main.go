package main

import (
	"log"

	"github.com/alecthomas/kong"
)

var version = "dev"

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"configs/config.yaml" env:"CONFIG_PATH"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run    RunCmd    `cmd:"" default:"1" help:"Run one monitoring cycle (for cron)"`
	Daemon DaemonCmd `cmd:"" help:"Run cycles on a schedule and answer Telegram commands"`
	Status StatusCmd `cmd:"" help:"Print the stored wallet state"`
	Reset  ResetCmd  `cmd:"" help:"Delete the stored wallet state so the next run starts over"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("stakesentinel"),
		kong.Description("Monitors a QTUM staking wallet and sends notifications."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
