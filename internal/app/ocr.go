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
)

func runOCR(args []string) int {
	fs := flag.NewFlagSet("ocr", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  polyglot ocr <file.png|jpg|jpeg|pdf> [--env .env] [--timeout 5m]")
		return 2
	}

	path := strings.TrimSpace(fs.Arg(0))
	if path == "" {
		fmt.Fprintln(os.Stderr, "ocr requires a file path")
		return 2
	}

	svc, err := buildServices(envLoader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	text, err := svc.pipeline.ExtractFile(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OCR failed: %v\n", err)
		return 1
	}

	fmt.Println(text)
	return 0
}
