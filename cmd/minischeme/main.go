package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cellux/minischeme"
)

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [file ...]\n\n", fs.Name())
		fmt.Fprintf(fs.Output(), "Without files an interactive session is started. Use - for stdin.\n\n")
		fs.PrintDefaults()
	}
}

func main() {
	home, _ := os.UserHomeDir()
	cfg := defaultConfig(home)

	fs := flag.NewFlagSet("minischeme", flag.ExitOnError)
	fs.Usage = usage(fs)
	configPath := fs.String("config", defaultConfigPath(home), "path of the YAML configuration file")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error); overrides the configuration file")
	fs.Parse(os.Args[1:])

	if err := loadConfig(*configPath, &cfg); err != nil {
		die("Error reading configuration: %v\n", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		die("Error in configuration: %v\n", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	vm, err := minischeme.NewVM(minischeme.WithLogger(logger))
	if err != nil {
		die("Error creating VM: %v\n", err)
	}
	for _, path := range cfg.Preload {
		if _, err := vm.LoadFile(path); err != nil {
			die("Error while loading %s: %v\n", path, err)
		}
	}
	if fs.NArg() == 0 {
		os.Exit(repl(vm, cfg))
	}
	for _, arg := range fs.Args() {
		if arg == "-" {
			if _, err := vm.Load(os.Stdin); err != nil {
				die("Error while loading from stdin: %v\n", err)
			}
			continue
		}
		if _, err := vm.LoadFile(arg); err != nil {
			die("Error while loading %s: %v\n", arg, err)
		}
	}
}
