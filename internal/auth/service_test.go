package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/apperr"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/security"
)

func newTestService(t *testing.T) (*Service, *fakeUserStore, *plainHasher, *Manager) {
	t.Helper()
	store := newFakeUserStore()
	hasher := &plainHasher{}
	tokens := NewManager("test-secret", time.Hour)
	svc := NewService(store, hasher, tokens, false)
	svc.jitter = func() time.Duration { return 0 }
	return svc, store, hasher, tokens
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name                string
		inName, email, pass string
		wantMsg             string
	}{
		{name: "missing_all", wantMsg: "Missing name, email or password"},
		{name: "missing_password", inName: "A", email: "a@x.com", wantMsg: "Missing name, email or password"},
		{name: "blank_name", inName: "   ", email: "a@x.com", pass: "secret1", wantMsg: "Name must be a non-empty string"},
		{name: "bad_email", inName: "A", email: "a@x", pass: "secret1", wantMsg: "Invalid email format"},
		{name: "email_with_space", inName: "A", email: "a b@x.com", pass: "secret1", wantMsg: "Invalid email format"},
		{name: "short_password", inName: "A", email: "a@x.com", pass: "12345", wantMsg: "Password must be at least 6 characters long"},
		// order: a blank name wins over a bad email
		{name: "blank_name_and_bad_email", inName: " ", email: "nope", pass: "1", wantMsg: "Name must be a non-empty string"},
		{name: "ok", inName: "A", email: "a@x.com", pass: "secret1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.inName, tt.email, tt.pass)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if apperr.KindOf(err) != apperr.KindValidation || err.Error() != tt.wantMsg {
				t.Fatalf("got %v (%s), want validation %q", err, apperr.KindOf(err), tt.wantMsg)
			}
		})
	}
}

func TestValidateLogin_NoMinimumLength(t *testing.T) {
	if err := ValidateLogin("a@x.com", "1"); err != nil {
		t.Fatalf("short password should pass login validation: %v", err)
	}
	if err := ValidateLogin("a@x.com", ""); err == nil || err.Error() != "Missing email or password" {
		t.Fatalf("got %v", err)
	}
	if err := ValidateLogin("bad", "pw"); err == nil || err.Error() != "Invalid email format" {
		t.Fatalf("got %v", err)
	}
}

func TestRegister_Twice(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	pub, err := svc.Register(ctx, "A", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	if pub != (user.Public{Name: "A", Email: "a@x.com"}) {
		t.Fatalf("unexpected public user %+v", pub)
	}
	if got := store.byEmail["a@x.com"].PasswordHash; got != "hashed:secret1" {
		t.Fatalf("stored hash got %q", got)
	}

	if _, err := svc.Register(ctx, "B", "a@x.com", "secret2"); !errors.Is(err, apperr.ErrDuplicateUser) {
		t.Fatalf("second register got %v want ErrDuplicateUser", err)
	}
	if store.creates != 1 {
		t.Fatalf("expected one insert, got %d", store.creates)
	}
}

func TestRegister_InsertRaceIsDuplicate(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	store.createErr = user.ErrEmailTaken

	if _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1"); !errors.Is(err, apperr.ErrDuplicateUser) {
		t.Fatalf("got %v want ErrDuplicateUser", err)
	}
}

func TestRegister_StoreErrorIsInternal(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	store.getErr = errors.New("db down")

	_, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	if err == nil || apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("got %v want internal error", err)
	}
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	svc, _, hasher, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, errUnknown := svc.Login(ctx, "nobody@x.com", "secret1")
	_, errWrong := svc.Login(ctx, "a@x.com", "wrong-password")

	if !errors.Is(errUnknown, apperr.ErrInvalidCredentials) || !errors.Is(errWrong, apperr.ErrInvalidCredentials) {
		t.Fatalf("got %v / %v, want ErrInvalidCredentials for both", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("messages differ: %q vs %q", errUnknown.Error(), errWrong.Error())
	}

	// the unknown email still paid for a comparison, against the dummy digest
	if len(hasher.compared) != 2 || hasher.compared[0] != "dummy" {
		t.Fatalf("unexpected comparisons %v", hasher.compared)
	}
}

func TestLogin_FailureWaitsForJitter(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	svc.jitter = func() time.Duration { return 30 * time.Millisecond }

	start := time.Now()
	_, err := svc.Login(context.Background(), "nobody@x.com", "pw")
	if !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("got %v", err)
	}
	if time.Since(start) < 30*time.Millisecond {
		t.Fatalf("expected failure path to be delayed")
	}
}

func TestLogin_IssuesTokenForUser(t *testing.T) {
	svc, store, _, tokens := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	tok, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.ExpiresInMinutes != 60 {
		t.Fatalf("ExpiresInMinutes got %d", tok.ExpiresInMinutes)
	}

	claims, err := tokens.Verify(tok.Value)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != store.byEmail["a@x.com"].ID {
		t.Fatalf("token userId %q does not match stored user", claims.UserID)
	}
}

func TestLogin_Validation(t *testing.T) {
	svc, _, hasher, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "a@x.com", "")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("got %v want validation error", err)
	}
	if len(hasher.compared) != 0 {
		t.Fatalf("validation failure must not reach the hasher")
	}
}

func TestCookieOptions(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	minutes := 60
	set, err := svc.CookieOptions(&minutes)
	if err != nil {
		t.Fatalf("CookieOptions: %v", err)
	}
	if set.MaxAgeMillis == nil || *set.MaxAgeMillis != 3_600_000 {
		t.Fatalf("MaxAgeMillis got %v", set.MaxAgeMillis)
	}
	if set.MaxAgeSeconds() != 3600 {
		t.Fatalf("MaxAgeSeconds got %d", set.MaxAgeSeconds())
	}
	if !set.HTTPOnly || set.SameSite != http.SameSiteStrictMode || set.Secure {
		t.Fatalf("unexpected attributes %+v", set)
	}

	clear, err := svc.Logout()
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if clear.MaxAgeMillis != nil {
		t.Fatalf("clear options must omit max age")
	}

	set.MaxAgeMillis = nil
	if set != clear {
		t.Fatalf("set and clear options differ beyond max age: %+v vs %+v", set, clear)
	}

	zero := 0
	if _, err := svc.CookieOptions(&zero); err == nil {
		t.Fatalf("expected non-positive expiry to be rejected")
	}
}

func TestCookieOptions_SecureFlag(t *testing.T) {
	svc := NewService(newFakeUserStore(), &plainHasher{}, NewManager("s", time.Hour), true)

	opts, err := svc.CookieOptions(nil)
	if err != nil {
		t.Fatalf("CookieOptions: %v", err)
	}
	if !opts.Secure {
		t.Fatalf("expected Secure when configured")
	}
}

func TestRegister_LongPasswordWithBcrypt(t *testing.T) {
	hasher, err := security.NewHasher()
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	svc := NewService(newFakeUserStore(), hasher, NewManager("test-secret", time.Hour), false)
	svc.jitter = func() time.Duration { return 0 }

	long := strings.Repeat("p", 80)
	if _, err := svc.Register(context.Background(), "A", "a@x.com", long); err != nil {
		t.Fatalf("80-byte password should register, got %v (kind %s)", err, apperr.KindOf(err))
	}

	if _, err := svc.Login(context.Background(), "a@x.com", long); err != nil {
		t.Fatalf("login with the same long password: %v", err)
	}
}
