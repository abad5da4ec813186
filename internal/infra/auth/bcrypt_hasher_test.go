package auth

import (
	"testing"

	"taskhub/config"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newHasherConfig(cost int) *config.Config {
	cfg := &config.Config{}
	cfg.Auth.BcryptCost = cost

	return cfg
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(newHasherConfig(bcrypt.MinCost))

	password := "secret1"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("wrong-password", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_HashesAreSalted(t *testing.T) {
	hasher := NewBcryptHasher(newHasherConfig(bcrypt.MinCost))

	first, err := hasher.Hash("secret1")
	assert.NoError(t, err)
	second, err := hasher.Hash("secret1")
	assert.NoError(t, err)

	// Same password, different salt, different hash.
	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_WithConfiguredCost(t *testing.T) {
	customCost := 6 // Lower cost for faster testing
	hasher := NewBcryptHasher(newHasherConfig(customCost))

	hash, err := hasher.Hash("secret1")
	assert.NoError(t, err)

	// Verify the hash uses the configured cost
	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestBcryptHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	hasher := NewBcryptHasher(newHasherConfig(0))

	hash, err := hasher.Hash("secret1")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
