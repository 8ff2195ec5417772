package domain

// Organizer is an entry of the festival organizer directory.
type Organizer struct {
	Name  string `json:"name" yaml:"name"`
	Role  string `json:"role" yaml:"role"`
	Bio   string `json:"bio" yaml:"bio"`
	Image string `json:"image" yaml:"image"`
	Email string `json:"-" yaml:"email"`
}
