package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldType represents the member attribute a condition looks at
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldName     FieldType = "name"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldBio      FieldType = "bio"
	FieldVerified FieldType = "verified"
	FieldUpdated  FieldType = "updated"
	FieldCreated  FieldType = "created"
)

// Operator represents a search operator
type Operator string

const (
	OperatorEquals   Operator = "="
	OperatorContains Operator = "contains"
	OperatorNewer    Operator = "newer"
	OperatorOlder    Operator = "older"
	OperatorAND      Operator = "AND"
	OperatorOR       Operator = "OR"
)

// Condition represents a single search condition
type Condition struct {
	Field    FieldType
	Operator Operator
	Value    string
	Age      time.Duration
	Negate   bool
}

// Query represents a parsed search query
type Query struct {
	Conditions []Condition
	Logic      []Operator // between consecutive conditions
	Raw        string
}

// Parser handles parsing of search queries
type Parser struct {
	fieldPattern  *regexp.Regexp
	quotedPattern *regexp.Regexp
	agePattern    *regexp.Regexp
}

// NewParser creates a new search query parser
func NewParser() *Parser {
	return &Parser{
		fieldPattern:  regexp.MustCompile(`^(\w+):(.*)$`),
		quotedPattern: regexp.MustCompile(`^"([^"]*)"$`),
		agePattern:    regexp.MustCompile(`^([<>])(\d+)([hdwmy])$`),
	}
}

// Parse parses a search query string into a Query
func (p *Parser) Parse(input string) (*Query, error) {
	query := &Query{Raw: input}

	tokens := p.tokenize(input)
	negate := false
	for i, token := range tokens {
		switch strings.ToUpper(token) {
		case "AND", "OR":
			if len(query.Conditions) == 0 || negate {
				return nil, fmt.Errorf("unexpected operator %s", token)
			}
			if len(query.Logic) == len(query.Conditions) {
				return nil, fmt.Errorf("operator %s follows another operator", token)
			}
			query.Logic = append(query.Logic, Operator(strings.ToUpper(token)))
			continue
		case "NOT":
			if i == len(tokens)-1 {
				return nil, fmt.Errorf("NOT operator requires a condition")
			}
			negate = !negate
			continue
		}

		cond, err := p.parseCondition(token)
		if err != nil {
			return nil, err
		}
		cond.Negate = negate
		negate = false

		// Adjacent conditions are joined with AND
		if len(query.Conditions) > len(query.Logic) {
			query.Logic = append(query.Logic, OperatorAND)
		}
		query.Conditions = append(query.Conditions, cond)
	}

	if len(query.Conditions) > 0 && len(query.Logic) != len(query.Conditions)-1 {
		return nil, fmt.Errorf("query ends with an operator")
	}
	return query, nil
}

// tokenize splits on spaces outside of double quotes
func (p *Parser) tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ' ' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

func (p *Parser) parseCondition(token string) (Condition, error) {
	matches := p.fieldPattern.FindStringSubmatch(token)
	if matches == nil {
		return Condition{Field: FieldText, Operator: OperatorContains, Value: p.unquote(token)}, nil
	}

	field := FieldType(strings.ToLower(matches[1]))
	value := p.unquote(matches[2])

	switch field {
	case FieldName, FieldEmail, FieldPhone, FieldBio, FieldText:
		return Condition{Field: field, Operator: OperatorContains, Value: value}, nil
	case FieldVerified:
		switch strings.ToLower(value) {
		case "yes", "true":
			return Condition{Field: field, Operator: OperatorEquals, Value: "true"}, nil
		case "no", "false":
			return Condition{Field: field, Operator: OperatorEquals, Value: "false"}, nil
		}
		return Condition{}, fmt.Errorf("invalid verified value: %s (expected yes or no)", value)
	case FieldUpdated, FieldCreated:
		age, op, err := p.parseAge(value)
		if err != nil {
			return Condition{}, err
		}
		return Condition{Field: field, Operator: op, Age: age}, nil
	}
	return Condition{}, fmt.Errorf("unknown field: %s", matches[1])
}

// parseAge parses values like "<7d" (within the last week) or ">1y"
func (p *Parser) parseAge(value string) (time.Duration, Operator, error) {
	matches := p.agePattern.FindStringSubmatch(value)
	if matches == nil {
		return 0, "", fmt.Errorf("invalid age format: %s (expected <7d, >30d, etc.)", value)
	}

	n, _ := strconv.Atoi(matches[2])
	unit := map[string]time.Duration{
		"h": time.Hour,
		"d": 24 * time.Hour,
		"w": 7 * 24 * time.Hour,
		"m": 30 * 24 * time.Hour,
		"y": 365 * 24 * time.Hour,
	}[matches[3]]

	op := OperatorNewer
	if matches[1] == ">" {
		op = OperatorOlder
	}
	return time.Duration(n) * unit, op, nil
}

// unquote removes quotes from a string if present
func (p *Parser) unquote(s string) string {
	if matches := p.quotedPattern.FindStringSubmatch(s); len(matches) == 2 {
		return matches[1]
	}
	return s
}
