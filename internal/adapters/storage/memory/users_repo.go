package memory

import (
	"context"
	"sort"
	"time"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/users"
)

type userRepo struct {
	store *Store
}

func NewUserRepo(store *Store) users.Repository {
	return &userRepo{store: store}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return apperrors.Conflict("ya existe un usuario con el username " + u.Username)
		}
		if existing.Email == u.Email {
			return apperrors.Conflict("ya existe un usuario con el email " + u.Email)
		}
	}
	s.users[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return users.User{}, apperrors.NotFound("usuario " + id + " no encontrado")
	}
	return u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return users.User{}, apperrors.NotFound("usuario " + username + " no encontrado")
}

func (r *userRepo) List(ctx context.Context) ([]users.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]users.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return apperrors.NotFound("usuario " + u.ID + " no encontrado")
	}
	for _, other := range s.users {
		if other.ID != u.ID && other.Email == u.Email {
			return apperrors.Conflict("ya existe un usuario con el email " + u.Email)
		}
	}
	s.users[u.ID] = u
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperrors.NotFound("usuario " + id + " no encontrado")
	}
	delete(s.users, id)
	return nil
}

func (r *userRepo) CreateResetToken(ctx context.Context, t users.ResetToken) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[t.UserID]; !ok {
		return apperrors.NotFound("usuario " + t.UserID + " no encontrado")
	}
	s.resetTokens[t.Token] = t
	return nil
}

func (r *userRepo) GetResetToken(ctx context.Context, token string) (users.ResetToken, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.resetTokens[token]
	if !ok {
		return users.ResetToken{}, apperrors.NotFound("token de recuperación no encontrado")
	}
	return t, nil
}

// ConsumeResetToken marca el token y cambia el hash bajo la misma
// sección crítica: dos consumos concurrentes producen exactamente un
// cambio de contraseña y un Conflict.
func (r *userRepo) ConsumeResetToken(ctx context.Context, token string, newHash string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.resetTokens[token]
	if !ok {
		return apperrors.NotFound("token de recuperación no encontrado")
	}
	if t.UsedAt != nil {
		return apperrors.Conflict("el token de recuperación ya fue usado")
	}
	u, ok := s.users[t.UserID]
	if !ok {
		return apperrors.NotFound("usuario " + t.UserID + " no encontrado")
	}

	if err := s.fail("users.consume_reset"); err != nil {
		return apperrors.Internal("el consumo del token falló", err)
	}

	used := time.Now()
	t.UsedAt = &used
	s.resetTokens[token] = t

	u.PasswordHash = newHash
	s.users[u.ID] = u
	return nil
}
