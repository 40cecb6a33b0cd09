package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPreferences_Prefer(t *testing.T) {
	prefs := &UserPreferences{PreferredCategories: []string{"Shopping", "Lebensmittel", "Auto"}}

	prefs.Prefer("Lebensmittel")
	assert.Equal(t, []string{"Lebensmittel", "Shopping", "Auto"}, prefs.PreferredCategories)

	prefs.Prefer("")
	assert.Len(t, prefs.PreferredCategories, 3)

	for i := 0; i < 2*MaxPreferredCategories; i++ {
		prefs.Prefer(fmt.Sprintf("Kategorie %d", i))
	}
	assert.Len(t, prefs.PreferredCategories, MaxPreferredCategories)
	assert.Equal(t, fmt.Sprintf("Kategorie %d", 2*MaxPreferredCategories-1), prefs.PreferredCategories[0])
}

func TestUserPreferences_Avoid(t *testing.T) {
	prefs := &UserPreferences{}

	prefs.Avoid("Shopping")
	prefs.Avoid("Shopping")
	assert.Equal(t, []string{"Shopping"}, prefs.AvoidedCategories)
	assert.True(t, prefs.IsAvoided("Shopping"))

	for i := 0; i < MaxAvoidedCategories; i++ {
		prefs.Avoid(fmt.Sprintf("Kategorie %d", i))
	}
	assert.Len(t, prefs.AvoidedCategories, MaxAvoidedCategories)
	assert.False(t, prefs.IsAvoided("Shopping"), "oldest entry should be dropped on overflow")
	assert.Equal(t, fmt.Sprintf("Kategorie %d", MaxAvoidedCategories-1), prefs.AvoidedCategories[MaxAvoidedCategories-1])
}

func TestUserPreferences_Clone(t *testing.T) {
	prefs := &UserPreferences{PreferredCategories: []string{"A"}, AvoidedCategories: []string{"B"}}
	clone := prefs.Clone()
	clone.Prefer("C")
	clone.Avoid("D")

	assert.Equal(t, []string{"A"}, prefs.PreferredCategories)
	assert.Equal(t, []string{"B"}, prefs.AvoidedCategories)

	var nilPrefs *UserPreferences
	assert.Nil(t, nilPrefs.Clone())
}
