package auth

import "github.com/dmitrijs2005/gophblog/internal/common"

// Authorize permits a mutation only when the session belongs to the
// resource's creator.
func Authorize(session SessionContext, creatorID string) error {
	if session.AccountID == "" || session.AccountID != creatorID {
		return common.ErrorForbidden
	}
	return nil
}
