// Package database provides the sqlite-backed key-value storage used by the
// terminal commands.
//
// # Layout
//
//	database/
//	├── database.go   # Connection setup and migrations
//	└── settings.go   # Key-value settings table (history lives here)
//
// # Usage
//
//	db, err := database.NewDatabase("./wordlookup.db")
//	value, err := db.Get(ctx, entities.SettingKeySearchHistory)
//	err = db.Put(ctx, entities.SettingKeySearchHistory, value)
//
// A missing key is reported as ErrNotFound so callers can tell an empty
// store apart from a broken one.
package database
