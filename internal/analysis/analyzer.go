package analysis

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/stringanalyzer/stringsvc/internal/models"
)

// Analyzer builds analysis records. It holds no state besides its clock
// and is safe for concurrent use.
type Analyzer struct {
	clock Clock
}

// NewAnalyzer creates an analyzer. A nil clock means SystemClock.
func NewAnalyzer(clock Clock) *Analyzer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Analyzer{clock: clock}
}

// stringValue checks that raw, as decoded at the call boundary, is a string.
func stringValue(raw interface{}) (string, error) {
	value, ok := raw.(string)
	if !ok {
		return "", models.ErrInvalidInput
	}
	return value, nil
}

// AnalyzeValue is Analyze for values whose type is not yet known.
// Anything but a string is models.ErrInvalidInput.
func (a *Analyzer) AnalyzeValue(raw interface{}) (*models.AnalysisRecord, error) {
	value, err := stringValue(raw)
	if err != nil {
		return nil, err
	}
	return a.Analyze(value), nil
}

// Analyze computes every property of value and returns a new record.
// It does not store anything.
func (a *Analyzer) Analyze(value string) *models.AnalysisRecord {
	hash := Fingerprint(value)
	freq := CharacterFrequency(value)

	return &models.AnalysisRecord{
		ID:    hash,
		Value: value,
		Properties: models.Properties{
			Length:                utf8.RuneCountInString(value),
			IsPalindrome:          IsPalindrome(value),
			UniqueCharacters:      len(freq),
			WordCount:             WordCount(value),
			SHA256Hash:            hash,
			CharacterFrequencyMap: freq,
		},
		CreatedAt: a.clock.Now().UTC().Truncate(time.Millisecond),
	}
}

// IsPalindrome reports whether value reads the same in both directions
// once lower-cased with all whitespace removed. Punctuation is kept.
func IsPalindrome(value string) bool {
	normalized := make([]rune, 0, len(value))
	for _, r := range strings.ToLower(value) {
		if unicode.IsSpace(r) {
			continue
		}
		normalized = append(normalized, r)
	}

	for i, j := 0, len(normalized)-1; i < j; i, j = i+1, j-1 {
		if normalized[i] != normalized[j] {
			return false
		}
	}
	return true
}

// WordCount counts maximal runs of non-whitespace characters.
func WordCount(value string) int {
	return len(strings.Fields(value))
}

// CharacterFrequency counts occurrences of each character, case-sensitively.
func CharacterFrequency(value string) map[string]int {
	freq := make(map[string]int)
	for _, r := range value {
		freq[string(r)]++
	}
	return freq
}
