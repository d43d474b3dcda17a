package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Fc North End", normalizeName("  fc north end "))
	assert.Equal(t, "Real Oviedo", normalizeName("REAL OVIEDO"))
}

func TestNormalizeCompetitions(t *testing.T) {
	assert.Equal(t, "league", normalizeCompetitions(""))
	assert.Equal(t, "league,cup", normalizeCompetitions(" League , CUP "))
	assert.Equal(t, "secondary", normalizeCompetitions("secondary,"))
}
