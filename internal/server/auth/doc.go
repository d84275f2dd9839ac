// Package auth holds the authentication and authorization core of the blog:
// bcrypt password hashing, HS256 session tokens, resolution of a cookie value
// into a SessionContext, and the creator-only ownership check.
//
// None of the types here touch storage or HTTP; they are wired together by
// the services and httpapi packages.
package auth
