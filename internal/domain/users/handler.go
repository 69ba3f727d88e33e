package users

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/platform/web"
)

// RegisterRoutes monta las rutas de cuentas. Las de /auth quedan fuera
// del gate de permisos: login y recuperación ocurren sin sesión.
func RegisterRoutes(r chi.Router, svc *Service, gate func(permission string) func(http.Handler) http.Handler) {
	r.Route("/usuarios", func(ur chi.Router) {
		ur.With(gate("usuarios.crear")).Post("/", createHandler(svc))
		ur.With(gate("usuarios.ver")).Get("/", listHandler(svc))
		ur.With(gate("usuarios.ver")).Get("/{userID}", getHandler(svc))
		ur.With(gate("usuarios.editar")).Patch("/{userID}", updateHandler(svc))
		ur.With(gate("usuarios.eliminar")).Delete("/{userID}", deleteHandler(svc))
	})
}

// RegisterAuthRoutes monta las rutas públicas de autenticación.
func RegisterAuthRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc))
		ar.Post("/recuperar", requestResetHandler(svc))
		ar.Post("/restablecer", resetPasswordHandler(svc))
	})
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	RoleID    string    `json:"role_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		RoleID:    u.RoleID,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			FullName string `json:"full_name"`
			Password string `json:"password"`
			RoleID   string `json:"role_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		u, err := svc.Create(r.Context(), CreateInput{
			Username: req.Username,
			Email:    req.Email,
			FullName: req.FullName,
			Password: req.Password,
			RoleID:   req.RoleID,
		})
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			web.WriteError(w, err)
			return
		}
		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    *string `json:"email"`
			FullName *string `json:"full_name"`
			RoleID   *string `json:"role_id"`
			Status   *string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		in := UpdateInput{
			Email:    req.Email,
			FullName: req.FullName,
			RoleID:   req.RoleID,
		}
		if req.Status != nil {
			st := Status(*req.Status)
			in.Status = &st
		}

		u, err := svc.Update(r.Context(), chi.URLParam(r, "userID"), in)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
			web.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		res, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]any{
			"token":      res.Token,
			"expires_at": res.ExpiresAt,
			"user_id":    res.UserID,
			"username":   res.Username,
			"role_id":    res.RoleID,
		})
	}
}

func requestResetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		if _, err := svc.RequestPasswordReset(r.Context(), req.Username); err != nil {
			// Un fallo de notificación no invalida el token ya guardado;
			// WriteError lo reporta con su estado propio.
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusAccepted, map[string]string{
			"message": "si la cuenta existe, se envió un token de recuperación",
		})
	}
}

func resetPasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token       string `json:"token"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			web.WriteError(w, apperrors.BadRequest("json inválido"))
			return
		}

		if err := svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
			web.WriteError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]string{"message": "contraseña actualizada"})
	}
}
