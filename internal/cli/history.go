package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/wordlookup/internal/config"
	"github.com/mrlokans/wordlookup/internal/entities"
)

// HistoryCommand prints or clears the search history.
type HistoryCommand struct {
	DatabasePath string
	Clear        bool

	cfg *config.Config
}

func NewHistoryCommand(cfg *config.Config) *HistoryCommand {
	return &HistoryCommand{cfg: cfg}
}

func (cmd *HistoryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the database file holding the search history")
	fs.BoolVar(&cmd.Clear, "clear", false, "Forget all recent searches")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s history [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show the most recent successful lookups, newest first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *HistoryCommand) Run() error {
	ctx := context.Background()

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Clear {
		if err := db.Delete(ctx, entities.SettingKeySearchHistory); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Println("Search history cleared")
		return nil
	}

	return newShell(cmd.cfg, db, nil).PrintHistory(ctx)
}
