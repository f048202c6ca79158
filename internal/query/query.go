// Package query builds the predicates and comparators the command layer hands
// to the ledger's projections.
package query

import (
	"fmt"
	"slices"
	"strings"

	"meetbook/internal/models"
	"meetbook/internal/view"
)

// PersonKeywords matches people whose name contains any of nameKeywords, or
// whose company contains any of companyKeywords. Matching ignores case. With
// no keywords at all every person matches.
func PersonKeywords(nameKeywords, companyKeywords []string) view.Predicate[*models.Person] {
	return func(p *models.Person) bool {
		if len(nameKeywords) == 0 && len(companyKeywords) == 0 {
			return true
		}
		return containsAny(p.Name().String(), nameKeywords) ||
			containsAny(p.Company().String(), companyKeywords)
	}
}

// PersonTag matches people with a tag containing term, ignoring case. An
// empty term matches nobody.
func PersonTag(term string) view.Predicate[*models.Person] {
	return func(p *models.Person) bool {
		if term == "" {
			return false
		}
		for _, tag := range p.Tags() {
			if containsFold(tag.String(), term) {
				return true
			}
		}
		return false
	}
}

// MeetingWith matches meetings that list name as a participant.
func MeetingWith(name string) view.Predicate[*models.Meeting] {
	return func(m *models.Meeting) bool { return m.HasParticipant(name) }
}

// PersonByName orders people by name.
func PersonByName(a, b *models.Person) int {
	return strings.Compare(a.Name().String(), b.Name().String())
}

// PersonByImportance orders people from Low to High importance.
func PersonByImportance(a, b *models.Person) int {
	return a.Importance().Rank() - b.Importance().Rank()
}

// MeetingByTime orders meetings chronologically.
func MeetingByTime(a, b *models.Meeting) int {
	return a.Time().Compare(b.Time())
}

// MeetingByParticipants orders meetings by their sorted participant names.
func MeetingByParticipants(a, b *models.Meeting) int {
	return slices.Compare(a.Participants(), b.Participants())
}

// PersonSort returns the comparator for a sort field and order, as typed by a
// user: field is "name" or "importance", order is "asc" or "desc".
func PersonSort(field, order string) (view.Comparator[*models.Person], error) {
	var cmp view.Comparator[*models.Person]
	switch strings.ToLower(field) {
	case "name":
		cmp = PersonByName
	case "importance":
		cmp = PersonByImportance
	default:
		return nil, fmt.Errorf("invalid sort field: %s", field)
	}
	switch strings.ToLower(order) {
	case "asc":
		return cmp, nil
	case "desc":
		return view.Reverse(cmp), nil
	}
	return nil, fmt.Errorf("invalid sort order: %s", order)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if containsFold(s, k) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
