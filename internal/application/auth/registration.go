package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/portal-api/internal/application/dto"
	"github.com/jhoicas/portal-api/internal/application/ports"
	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

// RegistrationUseCase solicitudes públicas de acceso y su revisión por un admin.
type RegistrationUseCase struct {
	uow          repository.UnitOfWork
	requests     repository.RegistrationRequestRepository
	users        repository.UserRepository
	events       ports.EventPublisher
	onPublishErr func(routingKey string, err error)
	newPassword  func() string
	now          func() time.Time
}

// NewRegistrationUseCase construye el caso de uso. events puede ser nil.
func NewRegistrationUseCase(uow repository.UnitOfWork, requests repository.RegistrationRequestRepository, users repository.UserRepository, events ports.EventPublisher) *RegistrationUseCase {
	return &RegistrationUseCase{
		uow:         uow,
		requests:    requests,
		users:       users,
		events:      events,
		newPassword: rand.Text,
		now:         time.Now,
	}
}

// OnPublishError recibe los errores de publicación de eventos.
func (uc *RegistrationUseCase) OnPublishError(fn func(routingKey string, err error)) {
	uc.onPublishErr = fn
}

// Submit registra una solicitud pendiente. Email ya registrado → ErrEmailAlreadyExists;
// solicitud pendiente para el mismo email → ErrDuplicate.
func (uc *RegistrationUseCase) Submit(ctx context.Context, in dto.RegistrationRequestInput) (*dto.RegistrationRequestResponse, error) {
	existing, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	pending, err := uc.requests.GetPendingByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, domain.ErrDuplicate
	}
	if in.RequestedRole == entity.RoleAdmin || !entity.IsValidRole(in.RequestedRole) {
		return nil, fmt.Errorf("rol %q: %w", in.RequestedRole, domain.ErrInvalidInput)
	}
	now := uc.now()
	req := &entity.RegistrationRequest{
		ID:            uuid.New().String(),
		Email:         in.Email,
		Name:          in.Name,
		RequestedRole: in.RequestedRole,
		Status:        entity.RegistrationPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	return toRegistrationResponse(req), nil
}

// List lista solicitudes por estado (vacío = pending).
func (uc *RegistrationUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.RegistrationRequestListResponse, error) {
	page.DefaultPage()
	if status == "" {
		status = entity.RegistrationPending
	}
	list, err := uc.requests.ListByStatus(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RegistrationRequestResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRegistrationResponse(r))
	}
	return &dto.RegistrationRequestListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Approve crea el usuario con una contraseña temporal y marca la solicitud como aprobada,
// ambas cosas en una unidad de trabajo. La contraseña viaja solo en el evento registration.approved.
func (uc *RegistrationUseCase) Approve(ctx context.Context, id, reviewerID string) (*dto.ApproveRegistrationResponse, error) {
	password := uc.newPassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	type result struct {
		req  *entity.RegistrationRequest
		user *entity.User
	}
	res, err := repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (result, error) {
		req, err := uc.pending(ctx, repos, id)
		if err != nil {
			return result{}, err
		}
		now := uc.now()
		user := &entity.User{
			ID:           uuid.New().String(),
			Email:        req.Email,
			PasswordHash: string(hash),
			Name:         req.Name,
			Role:         req.RequestedRole,
			Status:       entity.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Users().Create(ctx, user); err != nil {
			return result{}, err
		}
		req.Status = entity.RegistrationApproved
		req.ReviewedBy = reviewerID
		req.UpdatedAt = now
		if err := repos.RegistrationRequests().Update(ctx, req); err != nil {
			return result{}, err
		}
		return result{req: req, user: user}, nil
	})
	if err != nil {
		return nil, err
	}
	if uc.events != nil {
		err := uc.events.Publish(ctx, ports.EventRegistrationApproved, ports.RegistrationApproved{
			Email:             res.user.Email,
			Name:              res.user.Name,
			Role:              res.user.Role,
			TemporaryPassword: password,
		})
		if err != nil && uc.onPublishErr != nil {
			uc.onPublishErr(ports.EventRegistrationApproved, err)
		}
	}
	return &dto.ApproveRegistrationResponse{
		Request: *toRegistrationResponse(res.req),
		User:    *toUserResponse(res.user),
	}, nil
}

// Reject marca la solicitud como rechazada.
func (uc *RegistrationUseCase) Reject(ctx context.Context, id, reviewerID string) (*dto.RegistrationRequestResponse, error) {
	return repository.RunWithResult(ctx, uc.uow, func(ctx context.Context, repos repository.TxRepos) (*dto.RegistrationRequestResponse, error) {
		req, err := uc.pending(ctx, repos, id)
		if err != nil {
			return nil, err
		}
		req.Status = entity.RegistrationRejected
		req.ReviewedBy = reviewerID
		req.UpdatedAt = uc.now()
		if err := repos.RegistrationRequests().Update(ctx, req); err != nil {
			return nil, err
		}
		return toRegistrationResponse(req), nil
	})
}

// pending carga la solicitud y exige que siga pendiente.
func (uc *RegistrationUseCase) pending(ctx context.Context, repos repository.TxRepos, id string) (*entity.RegistrationRequest, error) {
	req, err := repos.RegistrationRequests().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.RegistrationPending {
		return nil, fmt.Errorf("la solicitud ya fue %s: %w", req.Status, domain.ErrConflict)
	}
	return req, nil
}

func toRegistrationResponse(r *entity.RegistrationRequest) *dto.RegistrationRequestResponse {
	return &dto.RegistrationRequestResponse{
		ID:            r.ID,
		Email:         r.Email,
		Name:          r.Name,
		RequestedRole: r.RequestedRole,
		Status:        r.Status,
		ReviewedBy:    r.ReviewedBy,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
