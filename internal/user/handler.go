package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Update(ctx context.Context, patch UserPatch) (*User, error)
	Delete(ctx context.Context, ids []int64) (int, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.Logger.Error("ListUsers: failed to list users", "error", err)
		h.HandleServiceError(w, err, "Kullanıcılar yüklenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponses(users))
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := transport.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Geçersiz kullanıcı ID")
		return
	}

	u, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err, "Kullanıcı yüklenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Logger.Debug("CreateUser: invalid body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	created, err := h.Service.Create(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, err, "Kullanıcı oluşturulurken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusCreated, created.ToResponse())
}

// UpdateUser handles PUT /users; the id travels in the body.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch UserPatch
	if err := h.DecodeJSON(r, &patch); err != nil {
		h.Logger.Debug("UpdateUser: invalid body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	updated, err := h.Service.Update(r.Context(), patch)
	if err != nil {
		h.HandleServiceError(w, err, "Kullanıcı güncellenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, updated.ToResponse())
}

// DeleteUsers handles DELETE /users?ids=[1,2]
func (h *Handler) DeleteUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := transport.ParseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		h.Logger.Debug("DeleteUsers: bad ids parameter", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Silinecek kullanıcı ID'leri gereklidir")
		return
	}

	removed, err := h.Service.Delete(r.Context(), ids)
	if err != nil {
		h.HandleServiceError(w, err, "Kullanıcı silinirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true, Deleted: removed})
}

