package models

import (
	"fmt"
	"slices"
	"strings"
)

// Person is a contact in the ledger. A Person is never modified after
// construction; edits build a new Person.
type Person struct {
	name       Name
	email      Email
	phone      Phone
	company    Company
	position   Position
	importance Importance
	tags       []Tag
}

// NewPerson builds a Person. Duplicate tags are collapsed.
func NewPerson(name Name, email Email, phone Phone, company Company, position Position, importance Importance, tags []Tag) *Person {
	return &Person{
		name:       name,
		email:      email,
		phone:      phone,
		company:    company,
		position:   position,
		importance: importance,
		tags:       tagSet(tags),
	}
}

func (p *Person) Name() Name             { return p.name }
func (p *Person) Email() Email           { return p.email }
func (p *Person) Phone() Phone           { return p.phone }
func (p *Person) Company() Company       { return p.company }
func (p *Person) Position() Position     { return p.position }
func (p *Person) Importance() Importance { return p.importance }

// Tags returns a copy of the tag set, sorted by tag text.
func (p *Person) Tags() []Tag { return slices.Clone(p.tags) }

// SamePerson reports whether other has the same identity, i.e. the exact
// same name.
func (p *Person) SamePerson(other *Person) bool {
	if p == nil || other == nil {
		return false
	}
	return p.name == other.name
}

// Equal reports whether every field of p and other matches.
func (p *Person) Equal(other *Person) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.name == other.name &&
		p.email == other.email &&
		p.phone == other.phone &&
		p.company == other.company &&
		p.position == other.position &&
		p.importance == other.importance &&
		slices.Equal(p.tags, other.tags)
}

func (p *Person) String() string {
	tags := make([]string, len(p.tags))
	for i, t := range p.tags {
		tags[i] = t.value
	}
	return fmt.Sprintf("%s; Email: %s; Phone: %s; Company: %s; Position: %s; Importance: %s; Tags: [%s]",
		p.name, p.email, p.phone, p.company, p.position, p.importance, strings.Join(tags, ", "))
}

func tagSet(tags []Tag) []Tag {
	out := slices.Clone(tags)
	slices.SortFunc(out, func(a, b Tag) int { return strings.Compare(a.value, b.value) })
	return slices.Compact(out)
}

// BuildPerson validates raw field values and assembles a Person from them.
func BuildPerson(name, email, phone, company, position, importance string, tags []string) (*Person, error) {
	n, err := NewName(name)
	if err != nil {
		return nil, err
	}
	e, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	ph, err := NewPhone(phone)
	if err != nil {
		return nil, err
	}
	c, err := NewCompany(company)
	if err != nil {
		return nil, err
	}
	pos, err := NewPosition(position)
	if err != nil {
		return nil, err
	}
	imp, err := ParseImportance(importance)
	if err != nil {
		return nil, err
	}
	tg, err := NewTags(tags...)
	if err != nil {
		return nil, err
	}
	return NewPerson(n, e, ph, c, pos, imp, tg), nil
}
