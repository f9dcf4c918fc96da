package main

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/uniflow/internal/config"
	"git.home.luguber.info/inful/uniflow/journal"
)

// runJournal prints the most recent journal entries plus a per-store
// activity summary rebuilt from the full journal.
func runJournal(path string, limit int) error {
	if path == "" {
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			return err
		}
		if !cfg.Journal.Enabled {
			return fmt.Errorf("journaling is disabled in %s and no --path given", CLI.Config)
		}
		path = cfg.Journal.Path
	}

	jnl, err := journal.NewSQLiteJournal(path)
	if err != nil {
		return err
	}
	defer jnl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := jnl.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("journal is empty")
		return nil
	}

	for _, e := range entries {
		dispatch := e.DispatchID
		if dispatch == "" {
			dispatch = "-"
		}
		fmt.Printf("%s  %-6s  %-30s  dispatch=%s\n",
			e.Timestamp.Format(time.RFC3339), e.Kind, e.Type, dispatch)
	}

	projection := journal.NewActivityProjection(jnl)
	if err := projection.Rebuild(ctx); err != nil {
		return err
	}
	for _, store := range projection.Stores() {
		summary, ok := projection.Summary(store)
		if !ok {
			continue
		}
		fmt.Printf("\nstore %s: %d intents, %d states, %d effects\n",
			store, total(summary.Intents), total(summary.States), total(summary.Effects))
	}
	return nil
}

func total(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
