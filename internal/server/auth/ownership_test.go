package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/gophblog/internal/common"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		session   SessionContext
		creatorID string
		wantErr   error
	}{
		{name: "creator", session: SessionContext{AccountID: "a1"}, creatorID: "a1"},
		{name: "other account", session: SessionContext{AccountID: "a2"}, creatorID: "a1", wantErr: common.ErrorForbidden},
		{name: "same handle other id", session: SessionContext{AccountID: "a2", Handle: "alice"}, creatorID: "a1", wantErr: common.ErrorForbidden},
		{name: "empty session", session: SessionContext{}, creatorID: "", wantErr: common.ErrorForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.session, tt.creatorID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
