package models

// Notes is free text attached to a meeting. Any string is valid, including "".
type Notes struct {
	value string
}

func NewNotes(s string) Notes { return Notes{value: s} }

func (n Notes) String() string { return n.value }
