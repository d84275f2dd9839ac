// Package client talks to the GophBlog HTTP API.
//
// HTTPClient keeps the session cookie in a cookie jar, so after Login every
// call is made as the logged-in account until Logout clears it. Post writes
// are sent as JSON, or as a multipart form when a cover image is attached.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Error answers from the server are
// returned as *APIError, which unwraps to the sentinel errors of package
// common (ErrorNotFound, ErrorForbidden, ...), so callers can match them
// with errors.Is.
package client
