// Package examples holds sample member sets for trying out memberdesk.
package examples

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/store"
)

// Categories lists the valid set categories, "all" last
var Categories = []string{"team", "community", "all"}

// ExampleSet represents a collection of related sample members
type ExampleSet struct {
	Category    string
	Name        string
	Description string
	Members     []ExampleMember
}

// ExampleMember is one sample profile
type ExampleMember struct {
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
	Phone       string
	Bio         string
}

// Values returns the profile as editable field values
func (e ExampleMember) Values() editing.Values {
	return editing.Values{
		models.FieldFirstName:   e.FirstName,
		models.FieldLastName:    e.LastName,
		models.FieldDisplayName: e.DisplayName,
		models.FieldEmail:       e.Email,
		models.FieldPhone:       e.Phone,
		models.FieldBio:         e.Bio,
	}
}

// GetExamples returns the example sets for category, or nil for an unknown
// one
func GetExamples(category string) []ExampleSet {
	var sets []ExampleSet
	add := func(name string, got []ExampleSet) {
		for i := range got {
			got[i].Category = name
		}
		sets = append(sets, got...)
	}

	switch category {
	case "team":
		add("team", teamExamples())
	case "community":
		add("community", communityExamples())
	case "all":
		add("team", teamExamples())
		add("community", communityExamples())
	}
	return sets
}

// InstallResult counts what Install did
type InstallResult struct {
	Added   int
	Updated int
	Skipped int
}

// Install adds the members of set to s, one second apart starting at now so
// they list in set order. A member whose email is already taken is skipped,
// or overwritten with the sample values when force is set.
func Install(ctx context.Context, s store.Store, set ExampleSet, force bool, now time.Time) (InstallResult, error) {
	var res InstallResult

	for i, ex := range set.Members {
		existing, err := findByEmail(ctx, s, ex.Email)
		if err != nil {
			return res, err
		}

		if existing != nil {
			if !force {
				res.Skipped++
				continue
			}
			if _, err := s.Update(ctx, existing.ID, ex.Values()); err != nil {
				return res, fmt.Errorf("failed to update %s: %w", ex.Email, err)
			}
			res.Updated++
			continue
		}

		member, err := store.NewMember(ex.Values(), now.Add(time.Duration(i)*time.Second))
		if err != nil {
			return res, fmt.Errorf("invalid example %s: %w", ex.Email, err)
		}
		if _, err := s.Create(ctx, member); err != nil {
			return res, fmt.Errorf("failed to create %s: %w", ex.Email, err)
		}
		res.Added++
	}

	return res, nil
}

func findByEmail(ctx context.Context, s store.Store, email string) (*models.Member, error) {
	page, err := s.List(ctx, store.ListOptions{Query: email})
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", email, err)
	}
	for _, m := range page.Members {
		if strings.EqualFold(m.Email, email) {
			return m, nil
		}
	}
	return nil, nil
}
