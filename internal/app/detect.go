package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/polyglot/internal/cli"
	"horse.fit/polyglot/internal/langdetect"
	"horse.fit/polyglot/internal/language"
)

func runDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	offline := fs.Bool("offline", false, "Detect without network backends (statistical model only)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  polyglot detect <text> [--offline] [--env .env] [--timeout 2m]")
		return 2
	}

	text := strings.TrimSpace(fs.Arg(0))
	if text == "" {
		fmt.Fprintln(os.Stderr, "detect argument must not be empty")
		return 2
	}

	if *offline {
		code := langdetect.DetectCode(text)
		if code == "" {
			fmt.Println("unknown")
			return 0
		}
		fmt.Printf("%s (%s)\n", code, language.DisplayName(code))
		return 0
	}

	svc, err := buildServices(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result := svc.detector.Detect(ctx, text)
	fmt.Printf("%s confidence=%.2f\n", result.Code, result.Confidence)
	return 0
}
