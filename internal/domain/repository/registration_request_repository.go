package repository

import (
	"context"

	"github.com/jhoicas/portal-api/internal/domain/entity"
)

// RegistrationRequestRepository persistencia de solicitudes de registro.
type RegistrationRequestRepository interface {
	Create(ctx context.Context, req *entity.RegistrationRequest) error
	GetByID(ctx context.Context, id string) (*entity.RegistrationRequest, error)
	// GetPendingByEmail devuelve la solicitud pendiente para el email, si existe.
	GetPendingByEmail(ctx context.Context, email string) (*entity.RegistrationRequest, error)
	Update(ctx context.Context, req *entity.RegistrationRequest) error
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.RegistrationRequest, error)
}
