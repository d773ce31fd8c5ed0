// Package session gives every browser its own history, kept in a server-side
// session the way a single-page app would use localStorage.
//
// Sessions are stored in the application SQLite database through scs.
// The package also carries the HTTP middleware that goes with cookies:
// loading and saving the session, CSRF protection and security headers.
package session
