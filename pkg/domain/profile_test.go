package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceProfile_Validate(t *testing.T) {
	tbl := []struct {
		name    string
		profile PreferenceProfile
		field   string
	}{
		{"valid minimal", PreferenceProfile{UserID: "u1"}, ""},
		{"valid full", PreferenceProfile{
			UserID:          "u1",
			Categories:      []string{"technology"},
			Keywords:        []string{"ai"},
			Sources:         []string{"TechDaily"},
			ExcludedSources: []string{"Tabloid"},
			MaxArticles:     5,
		}, ""},
		{"zero max articles means unset", PreferenceProfile{UserID: "u1", MaxArticles: 0}, ""},
		{"empty user id", PreferenceProfile{}, "user_id"},
		{"negative max articles", PreferenceProfile{UserID: "u1", MaxArticles: -1}, "max_articles"},
		{"source both allowed and excluded", PreferenceProfile{
			UserID:          "u1",
			Sources:         []string{"TechDaily"},
			ExcludedSources: []string{"techdaily"}, // match is case-insensitive
		}, "sources"},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			if tt.field == "max_articles" {
				assert.Equal(t, "must not be negative", validationErr.Reason)
			}
		})
	}
}

func TestPreferenceProfile_Limit(t *testing.T) {
	assert.Equal(t, DefaultMaxArticles, (&PreferenceProfile{UserID: "u1"}).Limit())
	assert.Equal(t, 5, (&PreferenceProfile{UserID: "u1", MaxArticles: 5}).Limit())
}

func TestPreferenceProfile_Lang(t *testing.T) {
	assert.Equal(t, "en", (&PreferenceProfile{UserID: "u1"}).Lang())
	assert.Equal(t, "de", (&PreferenceProfile{UserID: "u1", Language: "de"}).Lang())
}
