package ledger

import (
	"slices"

	"meetbook/internal/models"
)

// PersonStore is an ordered collection of people with unique names.
// Adding and replacing compare by identity (Person.SamePerson); locating the
// person to replace or remove compares every field (Person.Equal).
type PersonStore struct {
	items []*models.Person
}

func NewPersonStore() *PersonStore {
	return &PersonStore{}
}

// Contains reports whether a person with the same name is stored.
func (s *PersonStore) Contains(p *models.Person) bool {
	return slices.ContainsFunc(s.items, p.SamePerson)
}

// Add appends p.
func (s *PersonStore) Add(p *models.Person) error {
	if s.Contains(p) {
		return ErrDuplicatePerson
	}
	s.items = append(s.items, p)
	return nil
}

// Set replaces target with edited in place. edited may keep target's name;
// it may not take the name of any other stored person.
func (s *PersonStore) Set(target, edited *models.Person) error {
	idx := slices.IndexFunc(s.items, target.Equal)
	if idx == -1 {
		return ErrPersonNotFound
	}
	if !target.SamePerson(edited) && s.Contains(edited) {
		return ErrDuplicatePerson
	}
	s.items[idx] = edited
	return nil
}

// Remove deletes the stored person equal to p in every field.
func (s *PersonStore) Remove(p *models.Person) error {
	idx := slices.IndexFunc(s.items, p.Equal)
	if idx == -1 {
		return ErrPersonNotFound
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	return nil
}

// ReplaceAll swaps the whole contents for persons, keeping their order. The
// store is left untouched if two of them share a name.
func (s *PersonStore) ReplaceAll(persons []*models.Person) error {
	for i, p := range persons {
		if slices.ContainsFunc(persons[i+1:], p.SamePerson) {
			return ErrDuplicatePerson
		}
	}
	s.items = slices.Clone(persons)
	return nil
}

// All returns the stored people in insertion order.
func (s *PersonStore) All() []*models.Person {
	return slices.Clone(s.items)
}

func (s *PersonStore) Len() int { return len(s.items) }
