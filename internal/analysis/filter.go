package analysis

import (
	"strconv"
	"strings"

	"github.com/stringanalyzer/stringsvc/internal/models"
)

// Predicate is a parsed set of filter criteria. Nil fields impose no constraint.
type Predicate struct {
	IsPalindrome      *bool
	MinLength         *int
	MaxLength         *int
	WordCount         *int
	ContainsCharacter string
}

// ParseCriteria validates criteria and converts them into a Predicate.
// Unknown keys are ignored, as are empty numeric and contains_character
// values. A present is_palindrome that is not a true value means false.
// A numeric criterion that is not an integer yields an *models.InvalidFilterError.
func ParseCriteria(criteria models.FilterCriteria) (Predicate, error) {
	var p Predicate

	if v, ok := criteria[models.CriterionIsPalindrome]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			b = false
		}
		p.IsPalindrome = &b
	}

	ints := []struct {
		key string
		dst **int
	}{
		{models.CriterionMinLength, &p.MinLength},
		{models.CriterionMaxLength, &p.MaxLength},
		{models.CriterionWordCount, &p.WordCount},
	}
	for _, f := range ints {
		v := criteria[f.key]
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Predicate{}, &models.InvalidFilterError{Key: f.key, Value: v}
		}
		*f.dst = &n
	}

	p.ContainsCharacter = criteria[models.CriterionContainsCharacter]
	return p, nil
}

// Match reports whether rec satisfies every constraint in p.
func (p Predicate) Match(rec *models.AnalysisRecord) bool {
	props := rec.Properties
	if p.IsPalindrome != nil && props.IsPalindrome != *p.IsPalindrome {
		return false
	}
	if p.MinLength != nil && props.Length < *p.MinLength {
		return false
	}
	if p.MaxLength != nil && props.Length > *p.MaxLength {
		return false
	}
	if p.WordCount != nil && props.WordCount != *p.WordCount {
		return false
	}
	if p.ContainsCharacter != "" && !strings.Contains(rec.Value, p.ContainsCharacter) {
		return false
	}
	return true
}

// Filter returns the records that satisfy all criteria, in input order.
func Filter(records []*models.AnalysisRecord, criteria models.FilterCriteria) ([]*models.AnalysisRecord, error) {
	pred, err := ParseCriteria(criteria)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.AnalysisRecord, 0, len(records))
	for _, rec := range records {
		if pred.Match(rec) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}
