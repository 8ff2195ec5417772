package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAdmin                       // Admin bearer token required
)

// EndpointSecurityConfig maps mux route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Participants - Public
	"ListParticipants":  SecurityPublic,
	"CreateParticipant": SecurityPublic,
	"SavePass":          SecurityPublic,
	"UpdatePass":        SecurityPublic,
	"Gallery":           SecurityPublic,
	"ServePass":         SecurityPublic,

	// Messages
	"CreateMessage":       SecurityPublic,
	"ListMessages":        SecurityAdmin,
	"ListGroupedMessages": SecurityAdmin,

	// Moderation - Admin
	"ListPending":        SecurityAdmin,
	"ApproveParticipant": SecurityAdmin,
	"RejectParticipant":  SecurityAdmin,

	// Misc - Public
	"ListOrganizers": SecurityPublic,
	"AdminLogin":     SecurityPublic,
	"Health":         SecurityPublic,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
