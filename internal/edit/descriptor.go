// Package edit describes partial edits to people and meetings and merges them
// onto existing entities.
package edit

import (
	"errors"

	"meetbook/internal/models"
)

var (
	ErrNoFieldsEdited      = errors.New("at least one field to edit must be provided")
	ErrEmptyParticipantSet = errors.New("meeting requires at least one person")
)

// Field is an optional value: either set to a value or absent.
type Field[T any] struct {
	value T
	set   bool
}

// Set returns a Field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Get returns the value and whether it is present.
func (f Field[T]) Get() (T, bool) { return f.value, f.set }

func (f Field[T]) IsSet() bool { return f.set }

// Or returns the value if present, otherwise fallback.
func (f Field[T]) Or(fallback T) T {
	if f.set {
		return f.value
	}
	return fallback
}

// PersonDescriptor lists the person fields to overwrite.
type PersonDescriptor struct {
	Name       Field[models.Name]
	Email      Field[models.Email]
	Phone      Field[models.Phone]
	Company    Field[models.Company]
	Position   Field[models.Position]
	Importance Field[models.Importance]
	Tags       Field[[]models.Tag]
}

func (d PersonDescriptor) IsAnyFieldEdited() bool {
	return d.Name.set || d.Email.set || d.Phone.set || d.Company.set ||
		d.Position.set || d.Importance.set || d.Tags.set
}

// MeetingDescriptor lists the meeting fields to overwrite.
type MeetingDescriptor struct {
	Time         Field[models.MeetingTime]
	Notes        Field[models.Notes]
	Participants Field[[]string]
}

func (d MeetingDescriptor) IsAnyFieldEdited() bool {
	return d.Time.set || d.Notes.set || d.Participants.set
}
