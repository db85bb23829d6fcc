package main

import (
	"github.com/alecthomas/kong"

	"fping-monitor/internal/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type CLI struct {
	config.Globals

	Run     RunCmd     `cmd:"" default:"1" help:"Probe the configured hosts on an interval and serve the results"`
	Probe   ProbeCmd   `cmd:""             help:"Run a single probe cycle and print the result as JSON"`
	Report  ReportCmd  `cmd:""             help:"Generate charts and a text summary from stored results"`
	Version VersionCmd `cmd:""             help:"Display the app version and exit"`
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(
		&cli,
		kong.Name("fping-monitor"),
		kong.Description("Latency monitor driven by fping"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Summary:   true,
			FlagsLast: true,
		}),
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		ctx.FatalIfErrorf(err)
	}
}
