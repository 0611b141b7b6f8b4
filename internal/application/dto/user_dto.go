package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin bodeguero vendedor"`
}

// UpdateUserRequest cambios de rol o estado hechos por un admin.
type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role   *string `json:"role" validate:"omitempty,oneof=admin bodeguero vendedor"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// RegistrationRequestInput solicitud pública de acceso.
type RegistrationRequestInput struct {
	Email         string `json:"email" validate:"required,email"`
	Name          string `json:"name" validate:"required,min=1,max=200"`
	RequestedRole string `json:"requested_role" validate:"required,oneof=bodeguero vendedor"`
}

// RegistrationRequestResponse salida de una solicitud de registro.
type RegistrationRequestResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	RequestedRole string    `json:"requested_role"`
	Status        string    `json:"status"`
	ReviewedBy    string    `json:"reviewed_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RegistrationRequestListResponse lista paginada de solicitudes.
type RegistrationRequestListResponse struct {
	Items []RegistrationRequestResponse `json:"items"`
	Page  PageResponse                  `json:"page"`
}

// ApproveRegistrationResponse usuario creado al aprobar una solicitud.
type ApproveRegistrationResponse struct {
	Request RegistrationRequestResponse `json:"request"`
	User    UserResponse                `json:"user"`
}
