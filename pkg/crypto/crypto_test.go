package crypto

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "s3cret-passphrase" {
		t.Fatal("expected hash to differ from plaintext")
	}

	if !VerifyPassword(hash, "s3cret-passphrase") {
		t.Fatal("expected matching password to verify")
	}
	if VerifyPassword(hash, "wrong-password") {
		t.Fatal("expected mismatched password to fail verification")
	}
}
