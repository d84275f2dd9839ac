// Package models defines the server-side records persisted by the
// repositories.
package models
