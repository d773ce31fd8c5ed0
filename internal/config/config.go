package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Dictionary
		Notify
		Audio
		Session
		Tasks
		App
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Dictionary struct {
		BaseURL    string
		MinLatency time.Duration // Artificial floor so the loading indicator is visible
		Timeout    time.Duration
		UserAgent  string
	}
	Notify struct {
		DismissAfter time.Duration // Lifetime of an error notification
	}
	Audio struct {
		PlayerCommand string
		PlayerArgs    []string
		CacheDir      string
		CacheMaxAge   time.Duration // Clips untouched for longer are pruned; 0 disables pruning
		PruneSchedule string        // Cron schedule of the prune job
		ErrorReset    time.Duration // How long the button shows the warning state
	}
	Session struct {
		Secret        string // Auto-generated if empty
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	Tasks struct {
		Enabled         bool // Prefetch pronunciation clips in the background
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	App struct {
		DefaultWords []string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Dictionary API defaults
	v.SetDefault("dictionary_base_url", "https://api.dictionaryapi.dev/api/v2/entries/en")
	v.SetDefault("dictionary_min_latency", "300ms")
	v.SetDefault("dictionary_timeout", "10s")
	v.SetDefault("dictionary_user_agent", "WordLookup/1.0")

	v.SetDefault("notify_dismiss_after", "6s")

	// Audio defaults
	v.SetDefault("audio_player_command", "ffplay")
	v.SetDefault("audio_player_args", "-nodisp -autoexit -loglevel quiet")
	v.SetDefault("audio_cache_dir", DefaultAudioCacheDir)
	v.SetDefault("audio_cache_max_age", "168h")
	v.SetDefault("audio_cache_prune_schedule", "0 3 * * *")
	v.SetDefault("audio_error_reset", "2s")

	// Session defaults
	v.SetDefault("session_secret", "")       // Auto-generated if empty
	v.SetDefault("session_lifetime", "720h") // 30 days, history outlives a visit
	v.SetDefault("secure_cookies", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("default_words", DefaultWords)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Dictionary: Dictionary{
			BaseURL:    v.GetString("DICTIONARY_BASE_URL"),
			MinLatency: v.GetDuration("DICTIONARY_MIN_LATENCY"),
			Timeout:    v.GetDuration("DICTIONARY_TIMEOUT"),
			UserAgent:  v.GetString("DICTIONARY_USER_AGENT"),
		},
		Notify: Notify{
			DismissAfter: v.GetDuration("NOTIFY_DISMISS_AFTER"),
		},
		Audio: Audio{
			PlayerCommand: v.GetString("AUDIO_PLAYER_COMMAND"),
			PlayerArgs:    strings.Fields(v.GetString("AUDIO_PLAYER_ARGS")),
			CacheDir:      v.GetString("AUDIO_CACHE_DIR"),
			CacheMaxAge:   v.GetDuration("AUDIO_CACHE_MAX_AGE"),
			PruneSchedule: v.GetString("AUDIO_CACHE_PRUNE_SCHEDULE"),
			ErrorReset:    v.GetDuration("AUDIO_ERROR_RESET"),
		},
		Session: Session{
			Secret:        v.GetString("SESSION_SECRET"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		App: App{
			DefaultWords: splitWords(v.GetString("DEFAULT_WORDS")),
		},
	}
}

// splitWords parses a comma-separated word list, dropping blanks.
func splitWords(raw string) []string {
	var words []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
