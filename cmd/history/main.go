// Command history inspects and prunes the generation history store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"aigateway/internal/domain"
	"aigateway/internal/history"
	"aigateway/internal/infra"
)

func main() {
	var (
		limitFlag  int
		offsetFlag int
		deleteFlag int64
		clearFlag  bool
		jsonFlag   bool
	)
	flag.IntVar(&limitFlag, "limit", 20, "number of records to list")
	flag.IntVar(&offsetFlag, "offset", 0, "records to skip")
	flag.Int64Var(&deleteFlag, "delete", 0, "delete the record with this id")
	flag.BoolVar(&clearFlag, "clear", false, "delete every record")
	flag.BoolVar(&jsonFlag, "json", false, "print records as JSON lines")
	flag.Parse()

	if deleteFlag != 0 && clearFlag {
		exitWithError(errors.New("-delete and -clear are mutually exclusive"))
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "history").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := history.Open(ctx, cfg.HistoryDriver, cfg.HistoryDSN, &logger)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open history: %w", err))
	}
	defer store.Close()

	switch {
	case clearFlag:
		if err := store.Clear(ctx); err != nil {
			exitWithError(fmt.Errorf("failed to clear history: %w", err))
		}
		fmt.Println("history cleared")
	case deleteFlag != 0:
		removed, err := store.Delete(ctx, deleteFlag)
		if err != nil {
			exitWithError(fmt.Errorf("failed to delete record: %w", err))
		}
		if !removed {
			exitWithError(fmt.Errorf("record %d not found", deleteFlag))
		}
		fmt.Printf("record %d deleted\n", deleteFlag)
	default:
		if err := printHistory(ctx, os.Stdout, store, limitFlag, offsetFlag, jsonFlag); err != nil {
			exitWithError(err)
		}
	}
}

// printHistory writes one page of records, followed by a summary line unless
// asJSON is set.
func printHistory(ctx context.Context, w io.Writer, repo domain.HistoryRepository, limit, offset int, asJSON bool) error {
	records, err := repo.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count history: %w", err)
	}
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if asJSON {
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%6d  %-14s  %s  %s\n", rec.ID, rec.Kind, rec.CreatedAt.Format(time.RFC3339), truncate(rec.Prompt, 60))
	}
	if !asJSON {
		fmt.Fprintf(w, "%d of %d records\n", len(records), total)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
