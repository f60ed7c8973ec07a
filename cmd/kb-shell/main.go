package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/cognicore/kbase/pkg/kbase/config"
)

func main() {
	var (
		cfgPath     = flag.String("config", "", "YAML config file (optional)")
		rulesPath   = flag.String("rules", "", "Comma-separated rule files to assert at startup (optional)")
		journalPath = flag.String("journal", "", "SQLite journal path (optional, overrides config)")
		logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		metricsAddr = flag.String("metrics-addr", "", "Serve /metrics and /health on this address (optional)")
		command     = flag.String("exec", "", "One-shot command (non-interactive mode)")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *rulesPath != "" {
		cfg.Rules = append(cfg.Rules, strings.Split(*rulesPath, ",")...)
	}
	if *journalPath != "" {
		cfg.Journal = *journalPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *metricsAddr != "" {
		cfg.Metrics = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	os.Exit(run(context.Background(), cfg, *command, *metricsAddr, os.Stdin, os.Stdout, os.Stderr))
}

// run builds a session, executes one command or the interactive loop, and
// returns the process exit code. The session is always cleaned up.
func run(ctx context.Context, cfg *config.Config, command, metricsAddr string, stdin io.Reader, stdout, stderr io.Writer) int {
	sess, cleanup, err := buildSession(ctx, cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer cleanup()

	if metricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(metricsAddr, sess.buildRouter()); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	// One-shot mode
	if command != "" {
		if err := sess.exec(ctx, command, stdout); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	}

	// Interactive mode
	fmt.Fprintln(stdout, "===========================================")
	fmt.Fprintln(stdout, "  kbase shell")
	fmt.Fprintln(stdout, "  Forward chaining with truth maintenance")
	fmt.Fprintln(stdout, "===========================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Type 'help' for commands (Ctrl+D to exit):")
	fmt.Fprintln(stdout)

	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := sess.exec(ctx, line, stdout); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Fprintln(stdout, "Error:", err)
		}
	}

	fmt.Fprintln(stdout, "\nGoodbye!")
	return 0
}
