package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNeedsProfile_FullProfile(t *testing.T) {
	data := []byte(`{
		"isTrauma": true,
		"recommendedTraumaLevel": 2,
		"needsMRI": true,
		"needsCTScan": false,
		"needsUltrasound": true,
		"needsPetCT": false,
		"needsSurgicalICU": true,
		"needsPediatricICU": false,
		"needsNeonatalICU": false
	}`)

	profile, err := ParseNeedsProfile(data)
	require.NoError(t, err)

	assert.True(t, profile.IsTrauma)
	require.NotNil(t, profile.RecommendedTraumaLevel)
	assert.Equal(t, 2, *profile.RecommendedTraumaLevel)
	assert.True(t, profile.NeedsMRI)
	assert.False(t, profile.NeedsCTScan)
	assert.True(t, profile.NeedsUltrasound)
	assert.True(t, profile.NeedsSurgicalICU)
	assert.False(t, profile.NeedsNeonatalICU)
}

func TestParseNeedsProfile_MissingFieldsDefaultToFalse(t *testing.T) {
	profile, err := ParseNeedsProfile([]byte(`{"isTrauma": true}`))
	require.NoError(t, err)

	assert.True(t, profile.IsTrauma)
	assert.False(t, profile.NeedsMRI)
	assert.False(t, profile.NeedsSurgicalICU)
	assert.Nil(t, profile.RecommendedTraumaLevel)
}

func TestParseNeedsProfile_WrongTypedFieldsIgnored(t *testing.T) {
	data := []byte(`{
		"isTrauma": "yes",
		"needsMRI": 1,
		"needsCTScan": true,
		"recommendedTraumaLevel": "two"
	}`)

	profile, err := ParseNeedsProfile(data)
	require.NoError(t, err)

	assert.False(t, profile.IsTrauma)
	assert.False(t, profile.NeedsMRI)
	assert.True(t, profile.NeedsCTScan)
	assert.Nil(t, profile.RecommendedTraumaLevel)
}

func TestParseNeedsProfile_TraumaLevelRange(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected *int
	}{
		{name: "level 1 accepted", level: "1", expected: intPtr(1)},
		{name: "level 5 accepted", level: "5", expected: intPtr(5)},
		{name: "level 0 rejected", level: "0", expected: nil},
		{name: "level 6 rejected", level: "6", expected: nil},
		{name: "negative rejected", level: "-3", expected: nil},
		{name: "null rejected", level: "null", expected: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			profile, err := ParseNeedsProfile([]byte(`{"recommendedTraumaLevel": ` + tc.level + `}`))
			require.NoError(t, err)
			if tc.expected == nil {
				assert.Nil(t, profile.RecommendedTraumaLevel)
			} else {
				require.NotNil(t, profile.RecommendedTraumaLevel)
				assert.Equal(t, *tc.expected, *profile.RecommendedTraumaLevel)
			}
		})
	}
}

func TestParseNeedsProfile_FractionalLevelTruncates(t *testing.T) {
	profile, err := ParseNeedsProfile([]byte(`{"recommendedTraumaLevel": 2.7}`))
	require.NoError(t, err)
	require.NotNil(t, profile.RecommendedTraumaLevel)
	assert.Equal(t, 2, *profile.RecommendedTraumaLevel)
}

func TestParseNeedsProfile_NonObjectInputFails(t *testing.T) {
	_, err := ParseNeedsProfile([]byte(`"just a string"`))
	assert.Error(t, err)

	_, err = ParseNeedsProfile([]byte(`[1, 2, 3]`))
	assert.Error(t, err)

	_, err = ParseNeedsProfile([]byte(`not json`))
	assert.Error(t, err)
}

func intPtr(v int) *int {
	return &v
}
