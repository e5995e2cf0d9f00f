// Package services contains the application services for the SplitVault
// client: authentication, group/ledger operations, invitations, and
// receipts. Services orchestrate the crypto core and the transport client;
// no key material ever reaches the transport layer.
package services

import (
	"context"
	"fmt"

	"github.com/splitvault/splitvault/internal/client/client"
	"github.com/splitvault/splitvault/internal/client/session"
	"github.com/splitvault/splitvault/internal/cryptox"
	"github.com/splitvault/splitvault/internal/logging"
)

// AuthService handles register/login/logout. The password is hashed on the
// session's derivation worker; only the derived authentication token goes
// to the server.
type AuthService struct {
	client  client.Client
	session *session.Session
	logger  logging.Logger
}

func NewAuthService(c client.Client, s *session.Session, logger logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AuthService{client: c, session: s, logger: logger}
}

// Register derives the account secrets, generates a fresh master key,
// wraps it under the password key, and sends username + auth token +
// wrapped master key to the server. The password key and master key never
// leave the client.
func (a *AuthService) Register(ctx context.Context, username string, password []byte) error {
	secrets, err := a.session.Derive(ctx, username, password)
	if err != nil {
		return fmt.Errorf("derive: %w", err)
	}

	masterKey := cryptox.GenerateKey()
	wrapped, err := cryptox.WrapKey(masterKey, secrets.PasswordKey)
	if err != nil {
		return fmt.Errorf("wrap master key: %w", err)
	}

	if err := a.client.Register(ctx, username, secrets.AuthToken, wrapped); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Login authenticates with the derived token, unwraps the returned master
// key with the password key, and adopts both into the session. A wrapped
// master key that fails to open means the server returned foreign data;
// the session stays logged out.
func (a *AuthService) Login(ctx context.Context, username string, password []byte) error {
	secrets, err := a.session.Derive(ctx, username, password)
	if err != nil {
		return fmt.Errorf("derive: %w", err)
	}

	resp, err := a.client.Login(ctx, username, secrets.AuthToken)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	masterKey, err := cryptox.UnwrapKey(resp.WrappedMasterKey, secrets.PasswordKey)
	if err != nil {
		a.client.Logout()
		return fmt.Errorf("unwrap master key: %w", err)
	}

	a.session.Login(resp.UserID, username, secrets, masterKey)
	a.logger.Info(ctx, "logged in", "user_id", resp.UserID)
	return nil
}

func (a *AuthService) Logout(ctx context.Context) {
	a.client.Logout()
	a.session.Logout()
	a.logger.Info(ctx, "logged out")
}

func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
