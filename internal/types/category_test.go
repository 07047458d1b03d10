//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "technical", CategoryTechnical.String())
	assert.Equal(t, "soft", CategorySoft.String())
	assert.Equal(t, "experience", CategoryExperience.String())
	assert.Equal(t, "education", CategoryEducation.String())
	assert.Equal(t, "category(42)", Category(42).String())
}

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCategory("Technical")
	assert.Error(t, err, "names are lowercase")
	_, err = ParseCategory("hobbies")
	assert.Error(t, err)
}

func TestCategory_JSON(t *testing.T) {
	data, err := json.Marshal(Suggestion{Skill: "Leadership", Priority: PriorityHigh, Suggestion: "Lead a project.", Category: CategorySoft})
	require.NoError(t, err)
	assert.JSONEq(t, `{"skill":"Leadership","priority":"High","suggestion":"Lead a project.","category":"soft"}`, string(data))

	var s Suggestion
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, CategorySoft, s.Category)

	assert.Error(t, json.Unmarshal([]byte(`{"category":"hobbies"}`), &s))

	_, err = json.Marshal(Suggestion{Category: Category(99)})
	assert.Error(t, err)
}

func TestAnalysis_JSONFieldNames(t *testing.T) {
	a := Analysis{
		ID:               uuid.MustParse("3f1c9a52-7d0e-4b8e-9a55-2b1f0c7d9e10"),
		ProcessingMillis: 12,
		CreatedAt:        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "3f1c9a52-7d0e-4b8e-9a55-2b1f0c7d9e10", fields["id"])
	assert.EqualValues(t, 12, fields["processing_ms"])
	assert.Equal(t, "2024-01-02T03:04:05Z", fields["created_at"])
	assert.NotContains(t, fields, "job_title", "empty job title is omitted")
	assert.Contains(t, fields, "match")
	assert.Contains(t, fields, "recommendation")
}
