package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: vpcctl <command> [flags]

Commands:
  configure   Create or update the network declaration interactively
  preview     Show what would change without applying
  up          Provision or reconcile the network topology
  down        Destroy the network topology
  status      Show identifiers of the materialized topology

Flags:
  -help            Display this message
  -config string   Path to network.json (default ~/.config/vpcctl/network.json)

Run 'vpcctl <command> --help' for command-specific flags.
`)
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "-help") {
		usage()
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Println("vpcctl " + version)
		os.Exit(0)
	}

	cmd := ""
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = args[0]
		args = args[1:]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Let the engine finish its current step cleanly on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()

	switch cmd {
	case "configure":
		fs := flag.NewFlagSet("vpcctl configure", flag.ExitOnError)
		configPath := fs.String("config", "", "Path to network.json")
		fs.Usage = func() {
			fmt.Fprintf(os.Stderr, "Usage: vpcctl configure [flags]\n\nCreate or update the network declaration interactively.\n\nFlags:\n")
			fs.PrintDefaults()
		}
		_ = fs.Parse(args)
		runConfigure(ctx, *configPath)
		fmt.Printf("Configuration saved to %s\n", configPathOrDefault(*configPath))

	case "preview", "up", "down", "status":
		fs := flag.NewFlagSet("vpcctl "+cmd, flag.ExitOnError)
		configPath := fs.String("config", "", "Path to network.json")
		_ = fs.Parse(args)
		if err := loadConfig(*configPath); err != nil {
			log.Fatalf("config error: %v", err)
		}
		stateDir, err := StateDir()
		if err != nil {
			log.Fatalf("cannot resolve state dir: %v", err)
		}
		if err := runStackCommand(ctx, cmd, stateDir); err != nil {
			log.Fatalf("%v", err)
		}

	case "":
		usage()
		os.Exit(1)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}
