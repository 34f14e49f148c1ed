package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost factor the API has always used.
const bcryptCost = 10

// ErrDuplicateEmail is returned by AuthStore.AddUser when the unique
// email constraint rejects the insert. Duplicate detection lives in the
// store so two concurrent signups cannot both pass an existence check.
var ErrDuplicateEmail = errors.New("duplicate email")

type AuthStore interface {
	FindUserByEmail(email string) (*User, error)
	AddUser(u *User) error
}

type TokenSigner func(uid, email string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func() string
	signToken TokenSigner
	tokenTTL  time.Duration
}

// SigninResult carries the sanitized user record and the bearer token.
type SigninResult struct {
	User  *PublicUser
	Token string
}

func NewAuthService(store AuthStore, signer TokenSigner, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func() string { return shortID(12) },
		signToken: signer,
		tokenTTL:  tokenTTL,
	}
}

// Signup creates a user with a salted password hash. It returns a
// conflict error when the email is already registered and never returns
// a token; the client signs in separately.
func (s *AuthService) Signup(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return NewInvalidError("email/password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return NewInternalError("hash password")
	}
	u := &User{ID: s.idGen(), Email: email, PassHash: hash, CreatedAt: s.now()}
	if err := s.store.AddUser(u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return NewConflictError("User already exists")
		}
		return NewInternalError("store user")
	}
	return nil
}

// Signin verifies the credentials and issues a signed token embedding
// the user's email and id. Unknown email and wrong password yield the
// same error so the endpoint does not reveal which emails exist.
func (s *AuthService) Signin(email, password string) (*SigninResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, NewInternalError("find user")
	}
	if u == nil {
		return nil, NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("Invalid credentials")
	}
	token, err := s.signToken(u.ID, u.Email, s.tokenTTL)
	if err != nil {
		return nil, NewInternalError("sign token")
	}
	return &SigninResult{User: u.Public(), Token: token}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
