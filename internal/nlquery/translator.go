// Package nlquery translates a fixed set of English phrasings into filter criteria.
package nlquery

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/stringanalyzer/stringsvc/internal/models"
)

var (
	longerThanRegex  = regexp.MustCompile(`longer than (\d+)`)
	shorterThanRegex = regexp.MustCompile(`shorter than (\d+)`)
	exactlyRegex     = regexp.MustCompile(`exactly (\d+) characters`)
	containsRegex    = regexp.MustCompile(`contain(?:s|ing)? (?:the letter )?([a-z])`)
)

// rule inspects a normalized query and updates criteria in place.
type rule struct {
	name  string
	apply func(query string, criteria models.FilterCriteria)
}

// rules run in order; a later rule overwrites keys set by an earlier one.
var rules = []rule{
	{"palindrome", func(q string, c models.FilterCriteria) {
		if strings.Contains(q, "palindromic") || strings.Contains(q, "palindrome") {
			c[models.CriterionIsPalindrome] = "true"
		}
	}},
	{"word_count", func(q string, c models.FilterCriteria) {
		phrases := []struct {
			phrase string
			count  string
		}{
			{"single word", "1"},
			{"two words", "2"},
			{"three words", "3"},
		}
		for _, p := range phrases {
			if strings.Contains(q, p.phrase) {
				c[models.CriterionWordCount] = p.count
			}
		}
	}},
	{"longer_than", func(q string, c models.FilterCriteria) {
		if n, ok := matchInt(longerThanRegex, q); ok && n < math.MaxInt {
			c[models.CriterionMinLength] = strconv.Itoa(n + 1)
		}
	}},
	{"shorter_than", func(q string, c models.FilterCriteria) {
		if n, ok := matchInt(shorterThanRegex, q); ok {
			c[models.CriterionMaxLength] = strconv.Itoa(n - 1)
		}
	}},
	{"exact_length", func(q string, c models.FilterCriteria) {
		if n, ok := matchInt(exactlyRegex, q); ok {
			c[models.CriterionMinLength] = strconv.Itoa(n)
			c[models.CriterionMaxLength] = strconv.Itoa(n)
		}
	}},
	{"contains_letter", func(q string, c models.FilterCriteria) {
		if m := containsRegex.FindStringSubmatch(q); m != nil {
			c[models.CriterionContainsCharacter] = m[1]
		}
	}},
	{"first_vowel", func(q string, c models.FilterCriteria) {
		if !strings.Contains(q, "first vowel") {
			return
		}
		if _, set := c[models.CriterionContainsCharacter]; !set {
			c[models.CriterionContainsCharacter] = "a"
		}
	}},
}

// Translate maps query onto filter criteria.
// It returns models.ErrEmptyQuery for a blank query and
// models.ErrUnparseableQuery when no phrase is recognized.
func Translate(query string) (models.FilterCriteria, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, models.ErrEmptyQuery
	}

	criteria := make(models.FilterCriteria)
	for _, r := range rules {
		r.apply(normalized, criteria)
	}

	if len(criteria) == 0 {
		return nil, models.ErrUnparseableQuery
	}
	return criteria, nil
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

func matchInt(re *regexp.Regexp, q string) (int, bool) {
	m := re.FindStringSubmatch(q)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
