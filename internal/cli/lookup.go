package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mrlokans/wordlookup/internal/audio"
	"github.com/mrlokans/wordlookup/internal/config"
	"github.com/mrlokans/wordlookup/internal/dictionary"
)

// LookupCommand looks up a single word and prints its definitions.
type LookupCommand struct {
	Word         string
	DatabasePath string
	Play         bool

	cfg *config.Config
}

func NewLookupCommand(cfg *config.Config) *LookupCommand {
	return &LookupCommand{cfg: cfg}
}

func (cmd *LookupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the database file holding the search history")
	fs.BoolVar(&cmd.Play, "play", false, "Play the pronunciation after the lookup")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s lookup [options] <word>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Look up an English word in the Free Dictionary API.\n\n")
		fmt.Fprintf(os.Stderr, "Successful lookups are added to the search history.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s lookup serendipity\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s lookup -play \"ice cream\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Word = strings.Join(fs.Args(), " ")
	if strings.TrimSpace(cmd.Word) == "" {
		return fmt.Errorf("a word to look up is required")
	}

	return nil
}

func (cmd *LookupCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	var player *audio.Controller
	if cmd.Play {
		player, err = newAudioController(cmd.cfg)
		if err != nil {
			return err
		}
		defer player.Stop()
	}

	shell := newShell(cmd.cfg, db, player)
	if err := shell.Lookup(ctx, cmd.Word); err != nil {
		return fmt.Errorf("lookup of %q failed (%s)", cmd.Word, dictionary.KindName(err))
	}

	if cmd.Play {
		if err := shell.Play(ctx); err != nil {
			return errors.New(playbackMessage(err))
		}
	}
	return nil
}
