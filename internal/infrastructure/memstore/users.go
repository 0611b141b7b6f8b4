package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var (
	_ repository.UserRepository                = (*userRepo)(nil)
	_ repository.RegistrationRequestRepository = (*registrationRepo)(nil)
)

type userRepo struct{ db access }

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.users[user.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, u := range s.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		s.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.db.read(ctx, func(s *state) error {
		if u, ok := s.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.db.read(ctx, func(s *state) error {
		for _, u := range s.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.users[user.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name, cur.Role, cur.Status = user.Name, user.Role, user.Status
		cur.PasswordHash, cur.UpdatedAt = user.PasswordHash, user.UpdatedAt
		s.users[user.ID] = cur
		return nil
	})
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.db.read(ctx, func(s *state) error {
		list := make([]entity.User, 0, len(s.users))
		for _, u := range s.users {
			list = append(list, u)
		}
		newestFirst(list, func(u entity.User) time.Time { return u.CreatedAt }, func(u entity.User) string { return u.ID })
		for _, u := range page(list, limit, offset) {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}

type registrationRepo struct{ db access }

func (r *registrationRepo) Create(ctx context.Context, req *entity.RegistrationRequest) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.registrations[req.ID]; ok {
			return domain.ErrDuplicate
		}
		if req.Status == entity.RegistrationPending && pendingRegistration(s, req.Email) != nil {
			return domain.ErrDuplicate
		}
		s.registrations[req.ID] = *req
		return nil
	})
}

func (r *registrationRepo) GetByID(ctx context.Context, id string) (*entity.RegistrationRequest, error) {
	var out *entity.RegistrationRequest
	err := r.db.read(ctx, func(s *state) error {
		if req, ok := s.registrations[id]; ok {
			out = &req
		}
		return nil
	})
	return out, err
}

func (r *registrationRepo) GetPendingByEmail(ctx context.Context, email string) (*entity.RegistrationRequest, error) {
	var out *entity.RegistrationRequest
	err := r.db.read(ctx, func(s *state) error {
		out = pendingRegistration(s, email)
		return nil
	})
	return out, err
}

func pendingRegistration(s *state, email string) *entity.RegistrationRequest {
	for _, req := range s.registrations {
		if req.Status == entity.RegistrationPending && strings.EqualFold(req.Email, email) {
			req := req
			return &req
		}
	}
	return nil
}

func (r *registrationRepo) Update(ctx context.Context, req *entity.RegistrationRequest) error {
	return r.db.write(ctx, func(s *state) error {
		cur, ok := s.registrations[req.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status, cur.ReviewedBy, cur.UpdatedAt = req.Status, req.ReviewedBy, req.UpdatedAt
		s.registrations[req.ID] = cur
		return nil
	})
}

func (r *registrationRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.RegistrationRequest, error) {
	var out []*entity.RegistrationRequest
	err := r.db.read(ctx, func(s *state) error {
		var list []entity.RegistrationRequest
		for _, req := range s.registrations {
			if status == "" || req.Status == status {
				list = append(list, req)
			}
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
		for _, req := range page(list, limit, offset) {
			req := req
			out = append(out, &req)
		}
		return nil
	})
	return out, err
}
