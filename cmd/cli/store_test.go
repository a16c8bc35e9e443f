package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func withTmpConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "recipes")
}

func Test_cfgDir_And_Paths(t *testing.T) {
	base := withTmpConfig(t)
	if got := cfgDir(); got != base {
		t.Fatalf("cfgDir=%q, want %q", got, base)
	}
	if !strings.HasPrefix(tokenPath(), base) || !strings.HasSuffix(tokenPath(), "token.json") {
		t.Fatalf("tokenPath unexpected: %s", tokenPath())
	}
}

func Test_token_SaveLoadClear(t *testing.T) {
	_ = withTmpConfig(t)

	if _, err := loadToken(); err != errNoToken {
		t.Fatalf("want errNoToken when file missing, got %v", err)
	}
	if err := saveToken("tok", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	st, err := os.Stat(tokenPath())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("token file mode %v, want 0600", st.Mode().Perm())
	}
	tok, err := loadToken()
	if err != nil || tok != "tok" {
		t.Fatalf("loadToken: tok=%q err=%v", tok, err)
	}

	if err := saveToken("tok2", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("saveToken expired: %v", err)
	}
	if _, err := loadToken(); err != errNoToken {
		t.Fatalf("want errNoToken for expired token, got %v", err)
	}

	if err := clearToken(); err != nil {
		t.Fatalf("clearToken: %v", err)
	}
	if err := clearToken(); err != nil {
		t.Fatalf("second clearToken: %v", err)
	}
}

func Test_tokenExpiry(t *testing.T) {
	exp := time.Now().Add(42 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if got := tokenExpiry(signed, time.Hour); !got.Equal(exp) {
		t.Fatalf("tokenExpiry=%v, want %v", got, exp)
	}

	before := time.Now()
	got := tokenExpiry("garbage", time.Hour)
	if got.Before(before.Add(59*time.Minute)) || got.After(time.Now().Add(time.Hour)) {
		t.Fatalf("fallback expiry unexpected: %v", got)
	}
}

func Test_readSecret(t *testing.T) {
	v, err := readSecret(strings.NewReader("ignored\n"), "pw")
	if err != nil || v != "pw" {
		t.Fatalf("plain value: %q %v", v, err)
	}
	v, err = readSecret(strings.NewReader("from-stdin\r\nrest"), "-")
	if err != nil || v != "from-stdin" {
		t.Fatalf("stdin value: %q %v", v, err)
	}
	v, err = readSecret(strings.NewReader("no-newline"), "-")
	if err != nil || v != "no-newline" {
		t.Fatalf("stdin without newline: %q %v", v, err)
	}
}
