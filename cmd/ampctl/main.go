// Command ampctl is an interactive console for one Hegel amplifier. It talks
// to the device directly and does not need the daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"hegel_amplifier/internal/amplifier"
	"hegel_amplifier/internal/config"
	"hegel_amplifier/internal/console"
	"hegel_amplifier/internal/logger"
)

func main() {
	flags := pflag.NewFlagSet("ampctl", pflag.ExitOnError)
	configDir := flags.String("config", "", "directory holding config.yml (default: ./configs, .)")
	flags.String("host", "", "amplifier host name or IP")
	flags.Int("port", 0, "amplifier control port")
	flags.Duration("timeout", 0, "connect/write timeout, 0 for none")
	flags.String("log-level", "", "log level (debug, info, warn, error; default warn)")
	flags.Bool("discover", false, "probe sources before showing the prompt")
	_ = flags.Parse(os.Args[1:])

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	v := config.New(paths...)
	// log lines share stdout with the prompt
	v.SetDefault("log.level", logger.WarnLevel)
	for key, name := range map[string]string{
		"amplifier.host":     "host",
		"amplifier.port":     "port",
		"amplifier.timeout":  "timeout",
		"log.level":          "log-level",
		"discovery.on_start": "discover",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "ampctl: binding --%s: %v\n", name, err)
			os.Exit(2)
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ampctl: %v\n", err)
		os.Exit(2)
	}

	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctrl := amplifier.New(cfg.Amplifier.Name, cfg.Amplifier.Params(), log,
		cfg.Amplifier.TransportOptions(),
		amplifier.WithMaxSources(cfg.Discovery.MaxSources),
		amplifier.WithDiscoveryTimeout(cfg.Discovery.Timeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	con := console.New(ctrl, os.Stdout, log.Named("console"))
	fmt.Printf("%s at %s\n", ctrl.Name(), cfg.Amplifier.Params().Addr())
	if cfg.Discovery.OnStart {
		if err := con.Execute(ctx, "discover"); err != nil {
			fmt.Fprintf(os.Stderr, "discovery: %v\n", err)
		}
	}
	if err := con.Execute(ctx, "refresh"); err != nil {
		fmt.Fprintf(os.Stderr, "refresh: %v\n", err)
	}

	ed := console.NewLineEditor()
	err = con.Run(ctx, ed)
	ed.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ampctl: %v\n", err)
		os.Exit(1)
	}
}
