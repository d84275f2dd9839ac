package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
)

const (
	maxHandleLength   = 64
	maxPasswordLength = 72 // bcrypt ignores anything longer
)

// LoginResult is a successful login: the account and a freshly minted
// session token.
type LoginResult struct {
	Account *models.Account
	Token   string
}

// AccountService provides the account flows:
//   - Register: validate, hash and store a new account
//   - Login: verify credentials and mint a token
//   - Profile: echo the caller's session
type AccountService struct {
	repos  repomanager.RepositoryManager
	hasher *auth.Hasher
	issuer *auth.Issuer
	log    logging.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

func NewAccountService(m repomanager.RepositoryManager, h *auth.Hasher, iss *auth.Issuer, log logging.Logger) *AccountService {
	return &AccountService{
		repos:  m,
		hasher: h,
		issuer: iss,
		log:    log.With("module", "accounts"),
	}
}

// Register creates an account for handle. A taken handle yields
// common.ErrorDuplicateIdentity.
func (s *AccountService) Register(ctx context.Context, handle, password string) (*models.Account, error) {
	handle = strings.TrimSpace(handle)
	if err := validateCredentials(handle, password); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}

	account, err := s.repos.Accounts().Create(ctx, &models.Account{Handle: handle, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateIdentity) {
			s.log.Info(ctx, "register rejected: handle taken", "handle", handle)
			return nil, err
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info(ctx, "account registered", "handle", account.Handle, "account_id", account.ID)
	return account, nil
}

// Login checks handle and password. An unknown handle and a wrong password
// both yield common.ErrorInvalidCredentials, and both cost one bcrypt
// comparison.
func (s *AccountService) Login(ctx context.Context, handle, password string) (*LoginResult, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || password == "" {
		return nil, common.ErrorInvalidCredentials
	}

	account, err := s.repos.Accounts().GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummy())
			s.log.Info(ctx, "login failed", "handle", handle)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.log.Info(ctx, "login failed", "handle", handle)
		return nil, common.ErrorInvalidCredentials
	}

	token, err := s.issuer.Issue(account.ID, account.Handle)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "login succeeded", "handle", account.Handle, "account_id", account.ID)
	return &LoginResult{Account: account, Token: token}, nil
}

// Profile returns the identity carried by the caller's token.
func (s *AccountService) Profile(session auth.SessionContext) auth.SessionContext {
	return session
}

// dummy is a digest with the service's cost that no password matches.
func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash(string(common.GenerateRandByteArray(16)))
		if err == nil {
			s.dummyDigest = d
		}
	})
	return s.dummyDigest
}

func validateCredentials(handle, password string) error {
	switch {
	case handle == "":
		return fmt.Errorf("%w: handle is required", common.ErrorValidation)
	case utf8.RuneCountInString(handle) > maxHandleLength:
		return fmt.Errorf("%w: handle is longer than %d characters", common.ErrorValidation, maxHandleLength)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	case len(password) > maxPasswordLength:
		return fmt.Errorf("%w: password is longer than %d bytes", common.ErrorValidation, maxPasswordLength)
	}
	return nil
}
