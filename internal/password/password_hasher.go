package password

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher defines the password hashing contract.
type Hasher interface {
	Hash(password string) (string, error)
	// Compare checks password against a stored hash. needsUpgrade is true
	// when the hash is a legacy MD5 digest that should be replaced with
	// bcrypt on successful login.
	Compare(hash, password string) (needsUpgrade bool, err error)
}

// ErrMismatch is returned when the password does not match the stored hash.
var ErrMismatch = errors.New("password: mismatch")

// BcryptHasher implements Hasher using bcrypt, accepting legacy MD5 hashes
// carried over from the pre-migration user table.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed password hasher.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash converts a plain password into a bcrypt hash.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks the password against bcrypt or legacy MD5 hashes.
func (h *BcryptHasher) Compare(hash, password string) (bool, error) {
	if isLegacyMD5(hash) {
		digest := md5.Sum([]byte(password))
		if hex.EncodeToString(digest[:]) != strings.ToLower(hash) {
			return false, ErrMismatch
		}
		return true, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return false, ErrMismatch
	}
	return false, nil
}

func isLegacyMD5(hash string) bool {
	if len(hash) != 32 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
