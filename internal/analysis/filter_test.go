package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stringanalyzer/stringsvc/internal/models"
)

func sampleRecords() []*models.AnalysisRecord {
	a := NewAnalyzer(fixedClock{t: time.Unix(1700000000, 0)})
	var records []*models.AnalysisRecord
	for _, v := range []string{"madam", "racecar", "hello world", "banana", "a", "Level up"} {
		records = append(records, a.Analyze(v))
	}
	return records
}

func values(records []*models.AnalysisRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Value)
	}
	return out
}

func TestFilter(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name     string
		criteria models.FilterCriteria
		want     []string
	}{
		{"no criteria", nil, []string{"madam", "racecar", "hello world", "banana", "a", "Level up"}},
		{"palindromes", models.FilterCriteria{"is_palindrome": "true"}, []string{"madam", "racecar", "a"}},
		{"non palindromes", models.FilterCriteria{"is_palindrome": "false"}, []string{"hello world", "banana", "Level up"}},
		{"unparseable bool means false", models.FilterCriteria{"is_palindrome": "yes"}, []string{"hello world", "banana", "Level up"}},
		{"empty bool means false", models.FilterCriteria{"is_palindrome": ""}, []string{"hello world", "banana", "Level up"}},
		{"min length", models.FilterCriteria{"min_length": "7"}, []string{"racecar", "hello world", "Level up"}},
		{"max length", models.FilterCriteria{"max_length": "5"}, []string{"madam", "a"}},
		{"length range", models.FilterCriteria{"min_length": "5", "max_length": "6"}, []string{"madam", "banana"}},
		{"word count", models.FilterCriteria{"word_count": "2"}, []string{"hello world", "Level up"}},
		{"contains character", models.FilterCriteria{"contains_character": "n"}, []string{"banana"}},
		{"contains is case-sensitive", models.FilterCriteria{"contains_character": "L"}, []string{"Level up"}},
		{"contains substring", models.FilterCriteria{"contains_character": "ace"}, []string{"racecar"}},
		{"conjunctive", models.FilterCriteria{"is_palindrome": "true", "min_length": "5"}, []string{"madam", "racecar"}},
		{"nothing matches", models.FilterCriteria{"word_count": "3"}, []string{}},
		{"unknown keys ignored", models.FilterCriteria{"sort": "asc", "limit": "abc"}, []string{"madam", "racecar", "hello world", "banana", "a", "Level up"}},
		{"empty values ignored", models.FilterCriteria{"min_length": "", "contains_character": ""}, []string{"madam", "racecar", "hello world", "banana", "a", "Level up"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(records, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, values(got))
		})
	}
}

func TestFilter_InvalidNumericCriteria(t *testing.T) {
	for _, key := range []string{"min_length", "max_length", "word_count"} {
		t.Run(key, func(t *testing.T) {
			_, err := Filter(sampleRecords(), models.FilterCriteria{key: "abc"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidFilter))

			var filterErr *models.InvalidFilterError
			require.ErrorAs(t, err, &filterErr)
			assert.Equal(t, key, filterErr.Key)
			assert.Equal(t, "abc", filterErr.Value)
		})
	}
}

func TestFilter_InvalidCriteriaOnEmptyInput(t *testing.T) {
	_, err := Filter(nil, models.FilterCriteria{"min_length": "abc"})
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
}

func TestFilter_RejectsPartialNumbers(t *testing.T) {
	_, err := Filter(sampleRecords(), models.FilterCriteria{"max_length": "5abc"})
	assert.ErrorIs(t, err, models.ErrInvalidFilter)

	_, err = Filter(sampleRecords(), models.FilterCriteria{"word_count": "1.5"})
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
}

func TestParseCriteria(t *testing.T) {
	p, err := ParseCriteria(models.FilterCriteria{
		"is_palindrome":      "TRUE",
		"min_length":         " 3 ",
		"max_length":         "-1",
		"word_count":         "0",
		"contains_character": "z",
	})
	require.NoError(t, err)

	require.NotNil(t, p.IsPalindrome)
	assert.True(t, *p.IsPalindrome)
	assert.Equal(t, 3, *p.MinLength)
	assert.Equal(t, -1, *p.MaxLength)
	assert.Equal(t, 0, *p.WordCount)
	assert.Equal(t, "z", p.ContainsCharacter)

	empty, err := ParseCriteria(nil)
	require.NoError(t, err)
	assert.Equal(t, Predicate{}, empty)
}
