package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	LogLevel string `help:"Log level (debug, info, warn, error)"`

	Out io.Writer `kong:"-"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play at a local table in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Run the websocket game server"`
	Simulate SimulateCmd      `cmd:"" help:"Play computer-only tables and compare skill levels"`
	Advise   AdviseCmd        `cmd:"" help:"Show the basic-strategy play for a hand"`
	Count    CountCmd         `cmd:"" help:"Show the Hi-Lo count for a list of cards"`
	History  HistoryCmd       `cmd:"" help:"Print a recorded round history file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack with card counting, strategy advice and computer players"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	cli.Out = os.Stdout
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
