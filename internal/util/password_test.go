package util

import (
	"strings"
	"testing"
)

// ==================== 密码策略测试 ====================

func TestValidatePassword_Accepted(t *testing.T) {
	passwords := []string{
		"Passw0rd!",
		"Aa1!aaaa",
		`Str0ng"pass`,
		"X9y(zzzzzz",
	}
	for _, pwd := range passwords {
		ok, reason := ValidatePassword(pwd)
		if !ok {
			t.Errorf("ValidatePassword(%q) rejected: %s", pwd, reason)
		}
		if reason != "" {
			t.Errorf("ValidatePassword(%q) accepted but reason = %q", pwd, reason)
		}
	}
}

func TestValidatePassword_Rejected(t *testing.T) {
	cases := []struct {
		pwd  string
		want string // word the first failing reason must mention
	}{
		{"Aa1!a", "8 characters"},        // too short
		{"aa1!aaaa", "uppercase"},        // no upper
		{"AA1!AAAA", "lowercase"},        // no lower
		{"Aab!aaaa", "digit"},            // no digit
		{"Aa1aaaaa", "special"},          // no special
		{"", "8 characters"},             // empty short-circuits on length
		{"aaaaaaaa", "uppercase"},        // length ok, first missing class reported
	}
	for _, tc := range cases {
		ok, reason := ValidatePassword(tc.pwd)
		if ok {
			t.Errorf("ValidatePassword(%q) accepted, want rejection", tc.pwd)
			continue
		}
		if !strings.Contains(reason, tc.want) {
			t.Errorf("ValidatePassword(%q) reason = %q, want mention of %q", tc.pwd, reason, tc.want)
		}
	}
}

// 首个失败原因短路：同时缺大写和数字时只报大写
func TestValidatePassword_ShortCircuit(t *testing.T) {
	_, reason := ValidatePassword("aaaa!aaaa")
	if !strings.Contains(reason, "uppercase") {
		t.Errorf("want first failing rule (uppercase), got %q", reason)
	}
}

// ==================== 密码哈希测试 ====================

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd!", 4) // low cost for test speed
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "Passw0rd!" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("Passw0rd!", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("WrongPass1!", hash) {
		t.Error("wrong password should not verify")
	}
	if CheckPassword("Passw0rd!", "not-a-bcrypt-hash") {
		t.Error("garbage hash should not verify")
	}

	// same password, different salt
	hash2, _ := HashPassword("Passw0rd!", 4)
	if hash == hash2 {
		t.Error("two hashes of the same password should differ")
	}
}
