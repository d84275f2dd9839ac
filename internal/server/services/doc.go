// Package services contains the server-side flows that tie the auth core to
// storage: AccountService handles registration, login and profile, and
// PostService creates, updates and reads posts with their covers.
package services
