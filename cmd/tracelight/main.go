// Package main is the entrypoint for the tracelight service.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tracelight/tracelight/internal/server"
	"github.com/tracelight/tracelight/pkg/bootstrap"
)

const usage = `Usage: tracelight [command]
       tracelight serve          Start the service (NATS diagnostic surface, HTTP status page).
       tracelight check [file]   Validate a channel definitions file and print a summary.

Commands:
  serve         (default) Start the tracelight service.
  check [file]  Validate channel definitions (path, or TRACELIGHT_CHANNELS_FILE, or config/channels.json).

Environment: COMMS_URL, DIAGNOSTIC_SUBJECT, ENTRY_STREAM, TRACELIGHT_CHANNELS_FILE,
HTTP_PORT, LOG_LEVEL, LOG_FORMAT.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "check":
		file := ""
		if len(args) > 1 {
			file = args[1]
		}
		if err := runCheck(os.Stdout, file); err != nil {
			log.Fatalf("tracelight check: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("tracelight: %v", err)
	}
}

// runCheck validates a channel definitions file and prints its contents.
func runCheck(out io.Writer, file string) error {
	cfg, err := bootstrap.LoadChannelsConfig(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "version: %s\nchannels: %d\n", cfg.Version, len(cfg.Channels))
	for _, def := range cfg.Channels {
		state := "disabled"
		if def.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(out, "  %-20s %-8s %s\n", def.Name, state, def.Description)
	}
	return nil
}
