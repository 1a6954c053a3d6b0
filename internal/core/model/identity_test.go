package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveIDDeterministic(t *testing.T) {
	a := DeriveID("Acme Robotics", "")
	b := DeriveID("Acme Robotics", "completely different deck text")

	assert.Equal(t, a, b)
	assert.Len(t, a, 10)
}

func TestDeriveIDFallsBackToTextPrefix(t *testing.T) {
	text := "Our startup builds autonomous delivery drones for rural areas."

	a := DeriveID("", text)
	b := DeriveID("", text+" Extra pages beyond the hashed prefix do not matter once past 40 chars.")

	// Only the first 40 characters participate in the hash.
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, DeriveID("", "something else entirely"))
}

func TestDeriveIDNeverEmpty(t *testing.T) {
	assert.Len(t, DeriveID("", ""), 10)
}

func TestEnsureIDFirstWriteWins(t *testing.T) {
	p := NewProfile()
	p.Name = "Acme Robotics"

	p.EnsureID("deck text")
	first := p.StartupID
	assert.NotEmpty(t, first)

	p.Name = "Renamed Inc"
	p.EnsureID("other text")
	assert.Equal(t, first, p.StartupID)
}

func TestNewProfileSerializesFullKeySet(t *testing.T) {
	p := NewProfile()

	assert.NotNil(t, p.TopCompetitors)
	assert.NotNil(t, p.RiskFlags)
}
