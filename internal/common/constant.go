package common

// DefaultTokenCookieName is the cookie that carries the signed session token
// between the client and the server.
const DefaultTokenCookieName = "token"

// DefaultListLimit caps the number of posts returned by the public listing.
const DefaultListLimit = 20
