package entity

import "time"

// Estados de una solicitud de registro.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// RegistrationRequest solicitud pública de acceso al portal; un admin la aprueba o rechaza.
type RegistrationRequest struct {
	ID            string
	Email         string
	Name          string
	RequestedRole string
	Status        string
	ReviewedBy    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
