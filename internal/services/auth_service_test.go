package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type authStubStore struct {
	users map[string]*User
}

func newAuthStubStore() *authStubStore {
	return &authStubStore{users: map[string]*User{}}
}

func (s *authStubStore) FindUserByEmail(email string) (*User, error) {
	if u, ok := s.users[email]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (s *authStubStore) AddUser(u *User) error {
	if _, ok := s.users[u.Email]; ok {
		return ErrDuplicateEmail
	}
	copy := *u
	s.users[u.Email] = &copy
	return nil
}

func testSigner(uid, email string, ttl time.Duration) (string, error) {
	return "token:" + uid + ":" + email, nil
}

func TestAuthSignupThenSignin(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, testSigner, time.Hour)
	svc.now = func() time.Time { return time.Unix(0, 0) }
	svc.idGen = func() string { return "u1234567" }

	if err := svc.Signup("a@x.com", "pw123456"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	res, err := svc.Signin("a@x.com", "pw123456")
	if err != nil {
		t.Fatalf("Signin returned error: %v", err)
	}
	if res.Token != "token:u1234567:a@x.com" {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if res.User.Email != "a@x.com" || res.User.ID != "u1234567" {
		t.Fatalf("unexpected user %+v", res.User)
	}
}

func TestAuthSignupDuplicate(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, testSigner, time.Hour)

	if err := svc.Signup("a@x.com", "pw123456"); err != nil {
		t.Fatalf("first Signup returned error: %v", err)
	}
	err := svc.Signup("a@x.com", "other")
	if err == nil {
		t.Fatal("expected conflict for duplicate signup")
	}
	se, ok := err.(*ServiceError)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if se.Message != "User already exists" {
		t.Fatalf("unexpected message %q", se.Message)
	}
}

func TestAuthSigninUniformError(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, testSigner, time.Hour)
	if err := svc.Signup("a@x.com", "pw123456"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	_, errWrongPw := svc.Signin("a@x.com", "wrong")
	_, errNoUser := svc.Signin("nobody@x.com", "pw123456")
	if errWrongPw == nil || errNoUser == nil {
		t.Fatal("expected both signins to fail")
	}
	if errWrongPw.Error() != errNoUser.Error() {
		t.Fatalf("error messages differ: %q vs %q", errWrongPw, errNoUser)
	}
	if errWrongPw.Error() != "Invalid credentials" {
		t.Fatalf("unexpected message %q", errWrongPw)
	}
}

func TestAuthSignupStoresSaltedHash(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, testSigner, time.Hour)
	if err := svc.Signup("a@x.com", "pw123456"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	u := store.users["a@x.com"]
	if string(u.PassHash) == "pw123456" {
		t.Fatal("password stored in plaintext")
	}
	if cost, err := bcrypt.Cost(u.PassHash); err != nil || cost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d (%v)", cost, err)
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte("pw123456")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}
