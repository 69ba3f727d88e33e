package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/logger"
	"pet-boarding-backend/internal/ports/auth"
	"pet-boarding-backend/internal/ports/notify"
)

// RoleDirectory responde si un rol existe y admite asignaciones nuevas.
type RoleDirectory interface {
	IsAssignable(ctx context.Context, id string) (bool, error)
}

// TokenIssuer firma las credenciales de sesión. Lo implementa el
// adaptador JWT.
type TokenIssuer interface {
	Issue(claims auth.Claims) (string, time.Time, error)
}

const resetTokenTTL = 1 * time.Hour

type Service struct {
	repo     Repository
	roles    RoleDirectory
	issuer   TokenIssuer
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, roles RoleDirectory, issuer TokenIssuer, n notify.Notifier, log logger.Logger) *Service {
	return &Service{repo: repo, roles: roles, issuer: issuer, notifier: n, log: log, now: time.Now}
}

type CreateInput struct {
	Username string
	Email    string
	FullName string
	Password string
	RoleID   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return User{}, apperrors.BadRequest("el username es obligatorio")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return User{}, apperrors.BadRequest("el email es obligatorio")
	}
	if len(in.Password) < 8 {
		return User{}, apperrors.BadRequest("la contraseña debe tener al menos 8 caracteres")
	}
	if strings.TrimSpace(in.RoleID) == "" {
		return User{}, apperrors.BadRequest("el rol del usuario es obligatorio")
	}

	ok, err := s.roles.IsAssignable(ctx, in.RoleID)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, apperrors.Conflict("el rol " + in.RoleID + " no existe o está inactivo")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperrors.Internal("no se pudo generar el hash de la contraseña", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
		RoleID:       in.RoleID,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}

	s.log.Info("usuario creado", map[string]any{"user_id": u.ID, "username": u.Username})
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, apperrors.BadRequest("id de usuario requerido")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	Email    *string
	FullName *string
	RoleID   *string
	Status   *Status
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email == "" {
			return User{}, apperrors.BadRequest("el email no puede quedar vacío")
		}
		u.Email = email
	}
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.RoleID != nil && *in.RoleID != u.RoleID {
		ok, err := s.roles.IsAssignable(ctx, *in.RoleID)
		if err != nil {
			return User{}, err
		}
		if !ok {
			return User{}, apperrors.Conflict("el rol " + *in.RoleID + " no existe o está inactivo")
		}
		u.RoleID = *in.RoleID
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return User{}, apperrors.BadRequest("estado de usuario inválido")
		}
		u.Status = *in.Status
	}
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// RoleIDOf implementa rbac.UserDirectory.
func (s *Service) RoleIDOf(ctx context.Context, userID string) (string, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.Status != StatusActive {
		return "", apperrors.NotFound("el usuario " + userID + " está inactivo")
	}
	return u.RoleID, nil
}

// LoginResult es lo que recibe el cliente tras autenticarse.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	Username  string
	RoleID    string
}

// Login valida credenciales y emite el token de sesión. La respuesta a
// credenciales malas es siempre la misma para no filtrar qué parte falló.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return LoginResult{}, apperrors.BadRequest("credenciales inválidas")
		}
		return LoginResult{}, err
	}
	if u.Status != StatusActive {
		return LoginResult{}, apperrors.BadRequest("credenciales inválidas")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, apperrors.BadRequest("credenciales inválidas")
	}

	if s.issuer == nil {
		return LoginResult{}, apperrors.Internal("el emisor de tokens no está configurado", nil)
	}
	token, expires, err := s.issuer.Issue(auth.Claims{
		UserID:   u.ID,
		Username: u.Username,
		RoleID:   u.RoleID,
	})
	if err != nil {
		return LoginResult{}, apperrors.Internal("no se pudo emitir el token de sesión", err)
	}

	return LoginResult{
		Token:     token,
		ExpiresAt: expires,
		UserID:    u.ID,
		Username:  u.Username,
		RoleID:    u.RoleID,
	}, nil
}

// RequestPasswordReset genera y persiste un token de recuperación y
// DESPUÉS notifica. El orden importa: si el aviso falla, el token ya
// está confirmado y el error sale con su categoría propia en vez de
// revertir nada.
func (s *Service) RequestPasswordReset(ctx context.Context, username string) (ResetToken, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return ResetToken{}, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return ResetToken{}, apperrors.Internal("no se pudo generar el token de recuperación", err)
	}

	now := s.now()
	t := ResetToken{
		Token:     hex.EncodeToString(raw),
		UserID:    u.ID,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if err := s.repo.CreateResetToken(ctx, t); err != nil {
		return ResetToken{}, err
	}

	if err := s.notifier.Send(ctx, notify.Notification{
		Kind:      "password_reset",
		Recipient: u.Email,
		Subject:   "Recuperación de contraseña",
		Body:      "Use este token para restablecer su contraseña: " + t.Token,
		Metadata:  map[string]string{"user_id": u.ID},
	}); err != nil {
		s.log.Error("token guardado pero la notificación falló", map[string]any{
			"user_id": u.ID,
			"error":   err.Error(),
		})
		return t, apperrors.Notification("el token fue generado pero no se pudo notificar al usuario", err)
	}

	return t, nil
}

// ResetPassword consume el token y fija la nueva contraseña en una sola
// transacción.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.BadRequest("la contraseña debe tener al menos 8 caracteres")
	}

	t, err := s.repo.GetResetToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return err
	}
	if t.UsedAt != nil {
		return apperrors.Conflict("el token de recuperación ya fue usado")
	}
	if s.now().After(t.ExpiresAt) {
		return apperrors.Conflict("el token de recuperación expiró")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("no se pudo generar el hash de la contraseña", err)
	}

	if err := s.repo.ConsumeResetToken(ctx, t.Token, string(hash)); err != nil {
		return err
	}

	s.log.Info("contraseña restablecida", map[string]any{"user_id": t.UserID})
	return nil
}
