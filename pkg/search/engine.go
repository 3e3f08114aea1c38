// Package search filters members with a small query language:
//
//	ann                    name or email contains "ann"
//	email:example.com      field contains a value (name, email, phone, bio)
//	verified:no            email verification state
//	updated:<7d            changed within the last week (h, d, w, m, y)
//	created:>1y            created more than a year ago
//
// Conditions are joined with AND unless OR is given; NOT negates the next
// condition. Operators apply left to right.
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pluqqy/memberdesk/pkg/models"
)

// Result is a matching member with its relevance score
type Result struct {
	Member *models.Member
	Score  float64
}

// Engine evaluates queries against members
type Engine struct {
	parser *Parser
	now    func() time.Time
}

// NewEngine creates a new search engine
func NewEngine() *Engine {
	return &Engine{parser: NewParser(), now: time.Now}
}

// Search returns the members matching queryStr, best matches first. An
// empty query matches every member.
func (e *Engine) Search(members []*models.Member, queryStr string) ([]Result, error) {
	query, err := e.parser.Parse(queryStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	now := e.now()
	results := make([]Result, 0, len(members))
	for _, m := range members {
		if !e.matches(m, query, now) {
			continue
		}
		results = append(results, Result{Member: m, Score: e.calculateScore(m, query, now)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

func (e *Engine) matches(m *models.Member, query *Query, now time.Time) bool {
	if len(query.Conditions) == 0 {
		return true
	}

	result := evaluateCondition(m, query.Conditions[0], now)
	for i := 1; i < len(query.Conditions); i++ {
		next := evaluateCondition(m, query.Conditions[i], now)
		switch query.Logic[i-1] {
		case OperatorOR:
			result = result || next
		default:
			result = result && next
		}
	}
	return result
}

func evaluateCondition(m *models.Member, c Condition, now time.Time) bool {
	var ok bool
	switch c.Field {
	case FieldText:
		ok = m.Matches(c.Value)
	case FieldName:
		ok = contains(m.FirstName+" "+m.LastName+" "+m.DisplayName, c.Value)
	case FieldEmail:
		ok = contains(m.Email, c.Value)
	case FieldPhone:
		ok = contains(m.Phone, c.Value)
	case FieldBio:
		ok = contains(m.Bio, c.Value)
	case FieldVerified:
		ok = m.EmailVerified == (c.Value == "true")
	case FieldUpdated:
		ok = compareAge(now.Sub(m.UpdatedAt), c)
	case FieldCreated:
		ok = compareAge(now.Sub(m.CreatedAt), c)
	}

	if c.Negate {
		return !ok
	}
	return ok
}

func compareAge(age time.Duration, c Condition) bool {
	if c.Operator == OperatorOlder {
		return age > c.Age
	}
	return age <= c.Age
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// calculateScore boosts name matches and recently updated members
func (e *Engine) calculateScore(m *models.Member, query *Query, now time.Time) float64 {
	score := 1.0

	name := strings.ToLower(m.Label())
	for _, c := range query.Conditions {
		if c.Negate || (c.Field != FieldName && c.Field != FieldText) {
			continue
		}
		pattern := strings.ToLower(c.Value)
		if pattern == "" {
			continue
		}
		if name == pattern {
			score += 2.0
		} else if strings.HasPrefix(name, pattern) {
			score += 1.0
		}
	}

	age := now.Sub(m.UpdatedAt)
	if age < 24*time.Hour {
		score += 1.0
	} else if age < 7*24*time.Hour {
		score += 0.5
	}

	return score
}
