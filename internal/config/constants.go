package config

// Default paths for on-disk state
const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./wordlookup.db"

	// DefaultAudioCacheDir is where downloaded pronunciation clips are kept
	DefaultAudioCacheDir = "./audio-cache"
)

// DefaultWords is the built-in list of example words.
const DefaultWords = "dictionary,eloquent,serendipity,resilient"
