package vocabulary

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jonathan/skill-matcher/internal/schemas"
	"github.com/jonathan/skill-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalVocabulary = `{
	"version": "test",
	"technical": ["Go", "golang", "python", "go"],
	"soft": ["leadership", "agile"],
	"experience": ["senior"],
	"education": ["bachelor", "machine learning"],
	"synonyms": {"Golang": "Go"},
	"priorities": {"python": 10},
	"tips": {"python": "Build things in Python."},
	"soft_markers": ["leadership"],
	"seniority": {"junior": 2, "senior": 4, "lead": 5}
}`

func TestDefault_EmbeddedVocabularyIsValid(t *testing.T) {
	store := Default()
	require.NotNil(t, store)

	assert.NotEmpty(t, store.Version())
	for _, c := range types.AllCategories {
		terms := store.Terms(c)
		assert.NotEmpty(t, terms, "category %s should have terms", c)
		assert.True(t, sort.StringsAreSorted(terms), "category %s should be sorted", c)

		seen := make(map[string]bool)
		for _, term := range terms {
			assert.False(t, seen[term], "duplicate term %q in %s", term, c)
			seen[term] = true
		}
	}
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestParse_NormalizesTerms(t *testing.T) {
	store, err := Parse([]byte(minimalVocabulary))
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "golang", "python"}, store.Terms(types.CategoryTechnical))
	assert.Equal(t, "test", store.Version())
}

func TestParse_RejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing technical", `{"version": "v", "soft": [], "experience": [], "education": []}`},
		{"priority out of range", `{"version": "v", "technical": [], "soft": [], "experience": [], "education": [], "priorities": {"go": 11}}`},
		{"unknown field", `{"version": "v", "technical": [], "soft": [], "experience": [], "education": [], "extra": true}`},
		{"non-string term", `{"version": "v", "technical": [1], "soft": [], "experience": [], "education": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)

			var validationErr *schemas.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.json")
	require.NoError(t, os.WriteFile(path, []byte(minimalVocabulary), 0644))

	store, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", store.Version())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read vocabulary file")
}

func TestCanonical(t *testing.T) {
	store := Default()

	tests := []struct {
		input    string
		expected string
	}{
		{"React.js", "react"},
		{"reactjs", "react"},
		{"Node.js", "nodejs"},
		{"Golang", "go"},
		{"K8S", "kubernetes"},
		{"Amazon Web Services", "aws"},
		{"PostgreSQL", "postgres"},
		{"  Python  ", "python"},
		{"Leadership", "leadership"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, store.Canonical(tt.input))
		})
	}
}

func TestCategoryOf(t *testing.T) {
	store := Default()

	c, ok := store.CategoryOf("Kubernetes")
	require.True(t, ok)
	assert.Equal(t, types.CategoryTechnical, c)

	c, ok = store.CategoryOf("Agile")
	require.True(t, ok)
	assert.Equal(t, types.CategorySoft, c)

	c, ok = store.CategoryOf("Nodejs")
	require.True(t, ok)
	assert.Equal(t, types.CategoryTechnical, c)

	_, ok = store.CategoryOf("Basket Weaving")
	assert.False(t, ok)

	// education-only terms are neither technical nor soft
	_, ok = store.CategoryOf("Bachelor")
	assert.False(t, ok)
}

func TestCategories_MultipleTags(t *testing.T) {
	store := Default()
	assert.Equal(t,
		[]types.Category{types.CategoryTechnical, types.CategoryEducation},
		store.Categories("Machine Learning"))
}

func TestPriority(t *testing.T) {
	store := Default()

	assert.Equal(t, 10, store.Priority("Python"))
	assert.Equal(t, 8, store.Priority("Kubernetes"))
	assert.Equal(t, 8, store.Priority("k8s"))
	assert.Equal(t, 8, store.Priority("Leadership"))
	assert.Equal(t, DefaultPriority, store.Priority("Cobol"))
}

func TestTip(t *testing.T) {
	store := Default()

	tip, ok := store.Tip("AWS")
	require.True(t, ok)
	assert.Contains(t, tip, "AWS certified")

	tip, ok = store.Tip("Node.js")
	require.True(t, ok)
	assert.Contains(t, tip, "Express.js")

	_, ok = store.Tip("Fortran")
	assert.False(t, ok)
}

func TestIsSoftByMarker(t *testing.T) {
	store := Default()

	assert.True(t, store.IsSoftByMarker("Team Leadership"))
	assert.True(t, store.IsSoftByMarker("Stakeholder Management"))
	assert.False(t, store.IsSoftByMarker("Agile"))
	assert.False(t, store.IsSoftByMarker("Python"))
}

func TestSeniorityRank(t *testing.T) {
	store := Default()

	tests := []struct {
		keyword  string
		rank     int
		expected bool
	}{
		{"Senior", 4, true},
		{"Team Lead", 5, true},
		{"Internship", 0, true},
		{"Entry-Level", 1, true},
		{"Staff", 6, true},
		{"Director", 8, true},
		{"5+ years", 0, false},
		{"Experienced", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			rank, ok := store.SeniorityRank(tt.keyword)
			assert.Equal(t, tt.expected, ok)
			assert.Equal(t, tt.rank, rank)
		})
	}
}

func TestSeniorityLadder_ReturnsCopy(t *testing.T) {
	store := Default()

	ladder := store.SeniorityLadder()
	ladder["senior"] = 99

	rank, ok := store.SeniorityRank("senior")
	require.True(t, ok)
	assert.Equal(t, 4, rank)
}

func TestEntries_TaggedByCategory(t *testing.T) {
	store, err := Parse([]byte(minimalVocabulary))
	require.NoError(t, err)

	entries := store.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, Entry{Term: "go", Category: types.CategoryTechnical}, entries[0])
	assert.Equal(t, Entry{Term: "machine learning", Category: types.CategoryEducation}, entries[len(entries)-1])
}
