package domain

import "time"

// Role enumerates account kinds on the platform.
type Role string

const (
	RoleTherapist Role = "THERAPIST"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// User is the domain model for any authenticated account: therapists who
// work shifts, organizers who publish them, and platform admins.
type User struct {
	ID                  string
	Name                string
	Email               string
	PasswordHash        string
	Role                Role
	CredentialsVerified bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
