package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, c := range HelpCategories {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory("gardening"))
	assert.False(t, ValidCategory(""))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("done"))
	assert.False(t, ValidStatus(""))
}

func TestValidUrgency(t *testing.T) {
	for _, u := range []string{UrgencyNormal, UrgencyUrgent, UrgencyCritical} {
		assert.True(t, ValidUrgency(u), u)
	}
	assert.False(t, ValidUrgency("low"))
}
