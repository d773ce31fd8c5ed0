package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/wordlookup/internal/audio"
	"github.com/mrlokans/wordlookup/internal/config"
)

// ReplCommand starts an interactive lookup session on the terminal.
type ReplCommand struct {
	DatabasePath string
	NoAudio      bool

	cfg *config.Config
}

func NewReplCommand(cfg *config.Config) *ReplCommand {
	return &ReplCommand{cfg: cfg}
}

func (cmd *ReplCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the database file holding the search history")
	fs.BoolVar(&cmd.NoAudio, "no-audio", false, "Disable pronunciation playback")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s repl [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Look up words interactively. Type :help inside the session for commands.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ReplCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	var player *audio.Controller
	if !cmd.NoAudio {
		player, err = newAudioController(cmd.cfg)
		if err != nil {
			log.Printf("WARNING: Audio playback disabled: %v", err)
		} else {
			defer player.Stop()
		}
	}

	fmt.Println("Word Lookup")
	fmt.Println("===========")
	fmt.Print(replHelp)
	fmt.Println()

	err = newShell(cmd.cfg, db, player).Run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
