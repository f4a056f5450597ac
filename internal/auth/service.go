package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/paintstock/paintstock/internal/shared"
	"github.com/paintstock/paintstock/internal/storage"
)

// ServiceConfig configures token signing and test hooks.
type ServiceConfig struct {
	Secret   []byte
	TokenTTL time.Duration
	Cost     int
	NewID    func() shared.ID
	Now      func() time.Time
}

// Service wraps account business rules.
type Service struct {
	store  storage.Store
	secret []byte
	ttl    time.Duration
	cost   int
	newID  func() shared.ID
	now    func() time.Time
}

// NewService constructs a new Service.
func NewService(store storage.Store, cfg ServiceConfig) *Service {
	s := &Service{store: store, secret: cfg.Secret, ttl: cfg.TokenTTL, cost: cfg.Cost, newID: cfg.NewID, now: cfg.Now}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.newID == nil {
		s.newID = func() shared.ID { return shared.ID(uuid.NewString()) }
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Signup registers a new unverified account. Emails are unique.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return Account{}, fmt.Errorf("auth: hash password: %w", err)
	}
	account := Account{
		ID:           s.newID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		accounts, err := loadAccounts(ctx, tx)
		if err != nil {
			return err
		}
		if findByEmail(accounts, in.Email) >= 0 {
			return ErrEmailTaken
		}
		return saveAccounts(ctx, tx, append(accounts, account))
	})
	if err != nil {
		return Account{}, err
	}
	return account.Public(), nil
}

// Login validates credentials and writes the session markers.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	var session Session
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		accounts, err := loadAccounts(ctx, tx)
		if err != nil {
			return err
		}
		idx := findByEmail(accounts, in.Email)
		if idx < 0 {
			return shared.ErrInvalidCredentials
		}
		account := accounts[idx]
		upgraded, err := s.checkPassword(&account, in.Password)
		if err != nil {
			return err
		}
		if upgraded {
			accounts[idx] = account
			if err := saveAccounts(ctx, tx, accounts); err != nil {
				return err
			}
		}

		token, err := s.issue(account)
		if err != nil {
			return err
		}
		session = Session{Token: token, User: account.Public()}
		if err := storage.Save(ctx, tx, storage.AuthToken, token); err != nil {
			return err
		}
		return storage.Save(ctx, tx, storage.UserData, session.User)
	})
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

// checkPassword reports whether a legacy plaintext password was replaced
// with a hash.
func (s *Service) checkPassword(account *Account, password string) (bool, error) {
	if account.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
			return false, shared.ErrInvalidCredentials
		}
		return false, nil
	}
	if account.LegacyPassword == "" || subtle.ConstantTimeCompare([]byte(account.LegacyPassword), []byte(password)) != 1 {
		return false, shared.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("auth: hash password: %w", err)
	}
	account.PasswordHash = string(hash)
	account.LegacyPassword = ""
	return true, nil
}

func (s *Service) issue(account Account) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:  account.ID.String(),
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Logout removes the session markers. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.DeleteCollection(ctx, storage.AuthToken, storage.UserData)
}

// Current returns the signed-in account. Both markers must be present and
// the token must verify against the configured secret.
func (s *Service) Current(ctx context.Context) (Account, error) {
	var (
		token   string
		account Account
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		hasToken, err := storage.Load(ctx, tx, storage.AuthToken, &token)
		if err != nil {
			return err
		}
		hasUser, err := storage.Load(ctx, tx, storage.UserData, &account)
		if err != nil {
			return err
		}
		if !hasToken || !hasUser || token == "" {
			return ErrNotSignedIn
		}
		return nil
	})
	if err != nil {
		return Account{}, err
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Account{}, errors.Join(ErrNotSignedIn, err)
	}
	if claims.Subject != account.ID.String() {
		return Account{}, ErrNotSignedIn
	}
	return account.Public(), nil
}
