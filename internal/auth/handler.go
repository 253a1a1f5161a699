package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/frahmantamala/order-admin/internal/user"
	"github.com/frahmantamala/order-admin/pkg/logger"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*Session, error)
	ResolveSession(ctx context.Context, token string) (*user.User, error)
}

type CookieOptions struct {
	Secure bool
	Path   string
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Cookie  CookieOptions
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, cookie CookieOptions) *Handler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Cookie:      cookie,
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Kullanıcı adı ve şifre gereklidir")
		return
	}

	session, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err, "Giriş yapılırken bir hata oluştu")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     h.Cookie.Path,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		UserResponse: session.User.ToResponse(),
		Token:        session.Token,
		ExpiresAt:    session.ExpiresAt,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless; clearing the cookie
// ends the browser session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     h.Cookie.Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.WriteJSON(w, http.StatusOK, LogoutResponse{Success: true})
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrInvalidToken, "")
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

// AuthMiddleware resolves the session from the bearer token or the session
// cookie and puts the user on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			h.HandleServiceError(w, internal.ErrInvalidToken, "")
			return
		}

		u, err := h.Service.ResolveSession(r.Context(), token)
		if err != nil {
			if _, ok := internal.IsAppError(err); !ok {
				h.Logger.Error("auth middleware: failed to resolve session", "error", err)
			}
			h.HandleServiceError(w, err, "Oturum doğrulanırken hata oluştu")
			return
		}

		ctx := ContextWithUser(r.Context(), u)
		ctx = logger.With(ctx, "user_id", u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManagement lets only members of the management department through.
// It must run after AuthMiddleware.
func (h *Handler) RequireManagement(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			h.HandleServiceError(w, internal.ErrInvalidToken, "")
			return
		}
		if !u.IsManagement() {
			logger.From(r.Context()).Warn("access denied: management only",
				"user_id", u.ID, "department", u.Department, "path", r.URL.Path)
			h.HandleServiceError(w, internal.ErrManagementOnly, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) sessionToken(r *http.Request) string {
	if token := h.ExtractTokenFromHeader(r); token != "" {
		return token
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
