package util

import (
	"testing"
	"time"
)

const testResetSecret = "test-reset-secret"

func TestResetToken_Roundtrip(t *testing.T) {
	token, err := GenerateResetToken(testResetSecret, "alice@x.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateResetToken failed: %v", err)
	}

	email, err := ParseResetToken(testResetSecret, token)
	if err != nil {
		t.Fatalf("ParseResetToken failed: %v", err)
	}
	if email != "alice@x.com" {
		t.Errorf("email = %q, want alice@x.com", email)
	}
}

// 过期边界：3599 秒时有效，3601 秒时过期
func TestResetToken_ExpiryBoundary(t *testing.T) {
	// issued 3599s ago, 1h window: still inside
	token, err := generateResetTokenAt(testResetSecret, "alice@x.com",
		time.Now().Add(-3599*time.Second), time.Hour)
	if err != nil {
		t.Fatalf("generateResetTokenAt failed: %v", err)
	}
	if _, err := ParseResetToken(testResetSecret, token); err != nil {
		t.Errorf("token at issued_at+3599s should verify, got %v", err)
	}

	// issued 3601s ago: expired
	token, err = generateResetTokenAt(testResetSecret, "alice@x.com",
		time.Now().Add(-3601*time.Second), time.Hour)
	if err != nil {
		t.Fatalf("generateResetTokenAt failed: %v", err)
	}
	if _, err := ParseResetToken(testResetSecret, token); err != ErrResetExpired {
		t.Errorf("token at issued_at+3601s: err = %v, want ErrResetExpired", err)
	}
}

func TestResetToken_Invalid(t *testing.T) {
	token, _ := GenerateResetToken(testResetSecret, "alice@x.com", time.Hour)

	// wrong secret: signature mismatch, not expiry
	if _, err := ParseResetToken("another-secret", token); err != ErrResetInvalid {
		t.Errorf("wrong secret: err = %v, want ErrResetInvalid", err)
	}

	if _, err := ParseResetToken(testResetSecret, "not.a.token"); err != ErrResetInvalid {
		t.Errorf("garbage token: err = %v, want ErrResetInvalid", err)
	}

	if _, err := ParseResetToken(testResetSecret, ""); err != ErrResetInvalid {
		t.Errorf("empty token: err = %v, want ErrResetInvalid", err)
	}
}

// 令牌在有效期内可重复验证（无服务端状态，已知缺口）
func TestResetToken_ReplayWithinWindow(t *testing.T) {
	token, _ := GenerateResetToken(testResetSecret, "alice@x.com", time.Hour)

	for i := 0; i < 3; i++ {
		if _, err := ParseResetToken(testResetSecret, token); err != nil {
			t.Fatalf("verification %d failed: %v", i+1, err)
		}
	}
}
