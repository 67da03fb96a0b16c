// Package models defines the core data structures used throughout the application.
package models

import (
	"strconv"
	"time"
)

// Filter criterion keys understood by the predicate filter.
const (
	CriterionIsPalindrome      = "is_palindrome"
	CriterionMinLength         = "min_length"
	CriterionMaxLength         = "max_length"
	CriterionWordCount         = "word_count"
	CriterionContainsCharacter = "contains_character"
)

// Properties holds everything derived from a record's value.
// It is computed once at creation and never changes afterwards.
type Properties struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	SHA256Hash            string         `json:"sha256_hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// AnalysisRecord is the stored result of analyzing one input string.
type AnalysisRecord struct {
	ID         string     `json:"id"`
	Value      string     `json:"value"`
	Properties Properties `json:"properties"`
	CreatedAt  time.Time  `json:"created_at"`
}

// FilterCriteria is a flat set of named constraints.
// Values are kept in their textual form; the filter parses them.
type FilterCriteria map[string]string

// Typed renders the criteria with booleans and integers where the
// key calls for them. Values that do not parse are left as strings.
func (c FilterCriteria) Typed() map[string]interface{} {
	out := make(map[string]interface{}, len(c))
	for k, v := range c {
		switch k {
		case CriterionIsPalindrome:
			if b, err := strconv.ParseBool(v); err == nil {
				out[k] = b
				continue
			}
		case CriterionMinLength, CriterionMaxLength, CriterionWordCount:
			if n, err := strconv.Atoi(v); err == nil {
				out[k] = n
				continue
			}
		}
		out[k] = v
	}
	return out
}

// NaturalLanguageResult is the outcome of a natural-language list query.
type NaturalLanguageResult struct {
	Query    string
	Criteria FilterCriteria
	Records  []*AnalysisRecord
}

// CreateRequest is the request body for the create endpoint.
// Value is left untyped so the analyzer can reject non-strings.
type CreateRequest struct {
	Value interface{} `json:"value"`
}

// ListResponse is the API response for structured listing.
type ListResponse struct {
	Data           []*AnalysisRecord `json:"data"`
	Count          int               `json:"count"`
	FiltersApplied map[string]string `json:"filters_applied"`
}

// InterpretedQuery echoes a natural-language query with the filters derived from it.
type InterpretedQuery struct {
	Original      string                 `json:"original"`
	ParsedFilters map[string]interface{} `json:"parsed_filters"`
}

// NaturalLanguageResponse is the API response for natural-language listing.
type NaturalLanguageResponse struct {
	Data             []*AnalysisRecord `json:"data"`
	Count            int               `json:"count"`
	InterpretedQuery InterpretedQuery  `json:"interpreted_query"`
}
