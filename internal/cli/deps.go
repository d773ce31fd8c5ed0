package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/wordlookup/internal/audio"
	"github.com/mrlokans/wordlookup/internal/config"
	"github.com/mrlokans/wordlookup/internal/database"
	"github.com/mrlokans/wordlookup/internal/dictionary"
)

// openDatabase opens the history database at path.
func openDatabase(path string) (*database.Database, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	db, err := database.NewDatabase(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func newDictionaryClient(cfg *config.Config) dictionary.Client {
	return dictionary.NewFreeDictionaryClient(dictionary.Config{
		BaseURL:    cfg.Dictionary.BaseURL,
		MinLatency: cfg.Dictionary.MinLatency,
		Timeout:    cfg.Dictionary.Timeout,
		UserAgent:  cfg.Dictionary.UserAgent,
	})
}

// newAudioController builds the pronunciation player from the audio
// settings.
func newAudioController(cfg *config.Config) (*audio.Controller, error) {
	cache, err := audio.NewCache(cfg.Audio.CacheDir, cfg.Dictionary.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio cache: %w", err)
	}
	player, err := audio.NewExecPlayer(audio.ExecPlayerConfig{
		Command: cfg.Audio.PlayerCommand,
		Args:    cfg.Audio.PlayerArgs,
		Cache:   cache,
	})
	if err != nil {
		return nil, err
	}
	return audio.NewController(player, cfg.Audio.ErrorReset), nil
}

func newShell(cfg *config.Config, db *database.Database, player *audio.Controller) *Shell {
	return NewShell(ShellConfig{
		Client:       newDictionaryClient(cfg),
		Storage:      db,
		Audio:        player,
		DefaultWords: cfg.App.DefaultWords,
		DismissAfter: cfg.Notify.DismissAfter,
		Out:          os.Stdout,
		Err:          os.Stderr,
	})
}
