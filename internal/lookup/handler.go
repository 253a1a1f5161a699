package lookup

import (
	"net/http"

	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Catalog() Catalog
	Values(kind string) ([]string, error)
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

// GetLookups handles GET /lookups
func (h *Handler) GetLookups(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.Catalog())
}

// GetLookup handles GET /lookups/{kind}
func (h *Handler) GetLookup(w http.ResponseWriter, r *http.Request) {
	values, err := h.Service.Values(chi.URLParam(r, "kind"))
	if err != nil {
		h.HandleServiceError(w, err, "Liste yüklenirken hata oluştu")
		return
	}
	h.WriteJSON(w, http.StatusOK, values)
}
