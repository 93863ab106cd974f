package domain

// Role of the caller as resolved by the identity collaborator
type Role string

const (
	RolePatient      Role = "patient"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// Actor authenticated caller
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Is returns true if the actor is the given user
func (a Actor) Is(userID int64) bool {
	return a.ID == userID
}
