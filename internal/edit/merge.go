package edit

import "meetbook/internal/models"

// MergePerson returns a new Person with d's present fields taking the place
// of orig's. orig is not modified.
func MergePerson(orig *models.Person, d PersonDescriptor) *models.Person {
	return models.NewPerson(
		d.Name.Or(orig.Name()),
		d.Email.Or(orig.Email()),
		d.Phone.Or(orig.Phone()),
		d.Company.Or(orig.Company()),
		d.Position.Or(orig.Position()),
		d.Importance.Or(orig.Importance()),
		d.Tags.Or(orig.Tags()),
	)
}

// MergeMeeting returns a new Meeting with d's present fields taking the place
// of orig's. orig is not modified. The result may have no participants if d
// sets an empty set; callers check that before storing it.
func MergeMeeting(orig *models.Meeting, d MeetingDescriptor) *models.Meeting {
	return models.NewMeeting(
		d.Time.Or(orig.Time()),
		d.Participants.Or(orig.Participants()),
		d.Notes.Or(orig.Notes()),
	)
}
