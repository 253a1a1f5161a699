package order

import (
	"context"
	"net/http"

	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, filter OrderFilter) ([]Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	Create(ctx context.Context, o Order) (*Order, error)
	Update(ctx context.Context, patch OrderPatch) (*Order, error)
	Delete(ctx context.Context, ids []int64) (int, error)
	ListProducts(ctx context.Context, orderID int64) ([]Product, error)
	AddProduct(ctx context.Context, orderID int64, p Product) (*Product, error)
	UpdateProduct(ctx context.Context, orderID int64, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, orderID, productID int64) (bool, error)
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

// ListOrders handles GET /orders?startDate=&endDate=&userId=
// userId carries the representative name; representative is accepted too.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := OrderFilter{
		StartDate:      q.Get("startDate"),
		EndDate:        q.Get("endDate"),
		Representative: q.Get("userId"),
	}
	if rep := q.Get("representative"); rep != "" {
		filter.Representative = rep
	}

	orders, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err, "Siparişler yüklenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, orders)
}

// GetOrder handles GET /orders/{orderId}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	o, err := h.Service.GetByID(r.Context(), orderID)
	if err != nil {
		h.HandleServiceError(w, err, "Sipariş yüklenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, o)
}

// CreateOrder handles POST /orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var o Order
	if err := h.DecodeJSON(r, &o); err != nil {
		h.Logger.Debug("CreateOrder: invalid body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	created, err := h.Service.Create(r.Context(), o)
	if err != nil {
		h.HandleServiceError(w, err, "Sipariş oluşturulurken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// UpdateOrder handles PUT /orders
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var patch OrderPatch
	if err := h.DecodeJSON(r, &patch); err != nil {
		h.Logger.Debug("UpdateOrder: invalid body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	updated, err := h.Service.Update(r.Context(), patch)
	if err != nil {
		h.HandleServiceError(w, err, "Sipariş güncellenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// DeleteOrders handles DELETE /orders?ids=[1,2]
func (h *Handler) DeleteOrders(w http.ResponseWriter, r *http.Request) {
	ids, err := transport.ParseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		h.Logger.Debug("DeleteOrders: bad ids parameter", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Silinecek sipariş ID'leri gereklidir")
		return
	}

	removed, err := h.Service.Delete(r.Context(), ids)
	if err != nil {
		h.HandleServiceError(w, err, "Sipariş silinirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true, Deleted: removed})
}

// ListProducts handles GET /orders/{orderId}/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	products, err := h.Service.ListProducts(r.Context(), orderID)
	if err != nil {
		h.HandleServiceError(w, err, "Ürünler yüklenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, products)
}

// CreateProduct handles POST /orders/{orderId}/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var p Product
	if err := h.DecodeJSON(r, &p); err != nil {
		h.Logger.Debug("CreateProduct: invalid body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	created, err := h.Service.AddProduct(r.Context(), orderID, p)
	if err != nil {
		h.HandleServiceError(w, err, "Ürün oluşturulurken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /orders/{orderId}/products; the product id
// travels in the body.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var patch ProductPatch
	if err := h.DecodeJSON(r, &patch); err != nil {
		h.Logger.Debug("UpdateProduct: invalid body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Geçersiz istek gövdesi")
		return
	}

	updated, err := h.Service.UpdateProduct(r.Context(), orderID, patch)
	if err != nil {
		h.HandleServiceError(w, err, "Ürün güncellenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /orders/{orderId}/products?productId=
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	productID, err := transport.ParseID(r.URL.Query().Get("productId"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Silinecek ürün ID'si gereklidir")
		return
	}

	removed, err := h.Service.DeleteProduct(r.Context(), orderID, productID)
	if err != nil {
		h.HandleServiceError(w, err, "Ürün silinirken hata oluştu")
		return
	}

	deleted := 0
	if removed {
		deleted = 1
	}
	h.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true, Deleted: deleted})
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := transport.ParseID(chi.URLParam(r, "orderId"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Geçersiz sipariş ID")
		return 0, false
	}
	return id, true
}
