package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundtrip(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}

	if err := hasher.Compare(hash, "s3cret-pass"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "wrong-pass"); err == nil {
		t.Fatal("expected a mismatch error")
	}
}

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := hasher.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want %d", cost, bcrypt.DefaultCost)
	}
}
