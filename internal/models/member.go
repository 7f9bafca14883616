package models

// Member is a participant in one or more groups.
// A Member is immutable once created.
type Member struct {
	// ID is the opaque identifier of the member (UUID for newly created members).
	ID string

	// Name is the display name of the member.
	Name string

	// Email is the contact address of the member.
	Email string
}
