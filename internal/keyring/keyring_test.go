package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/weekslot/internal/models"
)

func TestTokensRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	pair := models.TokenPair{Access: "a.b.c", Refresh: "r.s.t"}
	if err := SaveTokens("https://book.example.com/api", pair); err != nil {
		t.Fatalf("SaveTokens() failed: %v", err)
	}

	// Same host, different path shares the entry.
	got, err := GetTokens("https://BOOK.example.com/other")
	if err != nil {
		t.Fatalf("GetTokens() failed: %v", err)
	}
	if got != pair {
		t.Errorf("GetTokens() = %+v, want %+v", got, pair)
	}

	if _, err := GetTokens("https://elsewhere.example.com"); err != ErrNotFound {
		t.Errorf("GetTokens() for another host error = %v, want %v", err, ErrNotFound)
	}

	if err := DeleteTokens("https://book.example.com"); err != nil {
		t.Fatalf("DeleteTokens() failed: %v", err)
	}
	if _, err := GetTokens("https://book.example.com"); err != ErrNotFound {
		t.Errorf("after delete error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteTokens("https://book.example.com"); err != ErrNotFound {
		t.Errorf("second delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestSaveTokensValidation(t *testing.T) {
	gokeyring.MockInit()

	tests := []struct {
		name    string
		url     string
		tokens  models.TokenPair
		wantErr bool
	}{
		{name: "empty access", url: "https://x.example.com", tokens: models.TokenPair{}, wantErr: true},
		{name: "no host", url: "not a url", tokens: models.TokenPair{Access: "a"}, wantErr: true},
		{name: "ok", url: "http://localhost:8000", tokens: models.TokenPair{Access: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SaveTokens(tt.url, tt.tokens)
			if (err != nil) != tt.wantErr {
				t.Errorf("SaveTokens() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/testdb?sslmode=disable"
	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); err != ErrNotFound {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
