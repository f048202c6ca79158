package models

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// nameRule allows letters and digits separated by spaces, starting with a
// letter or digit.
var nameRule = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} ]*$`)

// Name identifies a person. Two people with the same name are the same person.
type Name struct {
	value string
}

func NewName(s string) (Name, error) {
	if !nameRule.MatchString(s) {
		return Name{}, invalid("name", s, "must contain only letters, digits and spaces and must not be blank")
	}
	return Name{value: s}, nil
}

func (n Name) String() string { return n.value }

// Email is a contact's email address.
type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	if err := validate.Var(s, "required,email"); err != nil {
		return Email{}, invalid("email", s, "must be a valid address of the form local-part@domain")
	}
	return Email{value: s}, nil
}

func (e Email) String() string { return e.value }

// Phone is a contact's phone number: digits only, at least three of them.
type Phone struct {
	value string
}

func NewPhone(s string) (Phone, error) {
	if err := validate.Var(s, "required,numeric,min=3"); err != nil || strings.ContainsAny(s, "+-.") {
		return Phone{}, invalid("phone", s, "must contain only digits and be at least 3 digits long")
	}
	return Phone{value: s}, nil
}

func (p Phone) String() string { return p.value }

// Company is the organisation a contact works for.
type Company struct {
	value string
}

func NewCompany(s string) (Company, error) {
	if !startsNonBlank(s) {
		return Company{}, invalid("company", s, "must not be blank or start with whitespace")
	}
	return Company{value: s}, nil
}

func (c Company) String() string { return c.value }

// Position is a contact's job title.
type Position struct {
	value string
}

func NewPosition(s string) (Position, error) {
	if !startsNonBlank(s) {
		return Position{}, invalid("position", s, "must not be blank or start with whitespace")
	}
	return Position{value: s}, nil
}

func (p Position) String() string { return p.value }

// Tag is a single alphanumeric label on a contact.
type Tag struct {
	value string
}

func NewTag(s string) (Tag, error) {
	if err := validate.Var(s, "required,alphanumunicode"); err != nil {
		return Tag{}, invalid("tag", s, "must be alphanumeric")
	}
	return Tag{value: s}, nil
}

// NewTags builds a tag set from raw strings, failing on the first invalid one.
func NewTags(raw ...string) ([]Tag, error) {
	tags := make([]Tag, 0, len(raw))
	for _, s := range raw {
		t, err := NewTag(s)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (t Tag) String() string { return t.value }

func startsNonBlank(s string) bool {
	return s != "" && !unicode.IsSpace([]rune(s)[0])
}
