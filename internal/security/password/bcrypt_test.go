package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventzone/eventzone-api/internal/core/domain"
)

func TestBcrypt_HashAndVerify(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("expected password to be hashed")
	}
	if err := h.Verify(hash, "s3cret"); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestBcrypt_Mismatch(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)
	hash, _ := h.Hash("s3cret")

	if err := h.Verify(hash, "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestBcrypt_CorruptHash(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	if err := h.Verify("not-a-bcrypt-hash", "s3cret"); !errors.Is(err, domain.ErrInternalFault) {
		t.Fatalf("expected ErrInternalFault, got %v", err)
	}
}

func TestNewBcrypt_CostOutOfRange(t *testing.T) {
	if got := NewBcrypt(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcrypt(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestBcrypt_HashTooLong(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("a", MaxLength)); err != nil {
		t.Fatalf("hash at limit: %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", MaxLength+8)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
