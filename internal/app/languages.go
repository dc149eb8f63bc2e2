package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"horse.fit/polyglot/internal/language"
	"horse.fit/polyglot/internal/translation"
)

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	provider := fs.String("provider", "", "Filter by provider capability")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	var entries []language.Entry
	if strings.TrimSpace(*provider) == "" {
		entries = language.List()
	} else {
		entries = translation.LanguagesFor(translation.ResolveProvider(*provider))
	}

	for _, entry := range entries {
		fmt.Printf("%-6s %s\n", entry.Code, entry.Name)
	}
	return 0
}

func runProviders(args []string) int {
	fs := flag.NewFlagSet("providers", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	names := translation.ProviderDisplayNames()
	ids := make([]string, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Printf("%-10s %s\n", id, names[id])
	}
	return 0
}
