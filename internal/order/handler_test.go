package order_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/order-admin/internal/collection"
	"github.com/frahmantamala/order-admin/internal/order"
	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Order Handler Integration", func() {
	var router *chi.Mux

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := order.NewService(newOrderStore(GinkgoT().TempDir()), nil, slogger)
		handler := order.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/orders", handler.ListOrders)
		router.Post("/orders", handler.CreateOrder)
		router.Put("/orders", handler.UpdateOrder)
		router.Delete("/orders", handler.DeleteOrders)
		router.Get("/orders/{orderId}", handler.GetOrder)
		router.Get("/orders/{orderId}/products", handler.ListProducts)
		router.Post("/orders/{orderId}/products", handler.CreateProduct)
		router.Put("/orders/{orderId}/products", handler.UpdateProduct)
		router.Delete("/orders/{orderId}/products", handler.DeleteProduct)
	})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create an order and keep numeric fields as sent", func() {
		w := do(http.MethodPost, "/orders", `{"id":77,"branch":"Merkez","year":2024,"orderNo":"A-12","orderDate":"2024-03-01","documentApproval":true}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(ContainSubstring(`"year":2024`))
		Expect(w.Body.String()).To(ContainSubstring(`"orderNo":"A-12"`))

		var created order.Order
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created.ID).To(Equal(int64(1)))
		Expect(created.Products).To(BeEmpty())

		w = do(http.MethodGet, "/orders/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should return an empty products list for orders stored without one", func() {
		dir := GinkgoT().TempDir()
		legacy := `[{"id":1,"branch":"Merkez"},{"id":2,"branch":"Şube","products":null}]`
		Expect(os.WriteFile(filepath.Join(dir, "orders.json"), []byte(legacy), 0o644)).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store := collection.NewStore[order.Order]("orders", collection.NewFileBackend(dir), nil)
		handler := order.NewHandler(&transport.BaseHandler{Logger: slogger}, order.NewService(store, nil, slogger))
		router = chi.NewRouter()
		router.Get("/orders", handler.ListOrders)
		router.Get("/orders/{orderId}", handler.GetOrder)

		w := do(http.MethodGet, "/orders", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring(`"products":null`))
		Expect(strings.Count(w.Body.String(), `"products":[]`)).To(Equal(2))

		w = do(http.MethodGet, "/orders/2", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"products":[]`))
	})

	It("should filter by date range and representative", func() {
		do(http.MethodPost, "/orders", `{"orderDate":"2024-01-10","representative":"Ali Veli"}`)
		do(http.MethodPost, "/orders", `{"orderDate":"2024-02-10","representative":"Ali Veli"}`)
		do(http.MethodPost, "/orders", `{"orderDate":"2024-01-12","representative":"Ayşe Kaya"}`)

		w := do(http.MethodGet, "/orders?startDate=2024-01-01&endDate=2024-01-31&userId=Ali%20Veli", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var orders []order.Order
		Expect(json.Unmarshal(w.Body.Bytes(), &orders)).To(Succeed())
		Expect(orders).To(HaveLen(1))
		Expect(orders[0].ID).To(Equal(int64(1)))

		w = do(http.MethodGet, "/orders?userId=null", "")
		Expect(json.Unmarshal(w.Body.Bytes(), &orders)).To(Succeed())
		Expect(orders).To(HaveLen(3))
	})

	It("should reject an invalid date bound", func() {
		w := do(http.MethodGet, "/orders?startDate=abc&endDate=2024-01-31", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should update by id in the body", func() {
		do(http.MethodPost, "/orders", `{"branch":"Merkez","companyName":"ABC ŞİRKET"}`)

		w := do(http.MethodPut, "/orders", `{"id":1,"branch":"Şube 3"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated order.Order
		Expect(json.Unmarshal(w.Body.Bytes(), &updated)).To(Succeed())
		Expect(updated.Branch).To(Equal("Şube 3"))
		Expect(updated.CompanyName).To(Equal("ABC ŞİRKET"))

		w = do(http.MethodPut, "/orders", `{"id":2,"branch":"x"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Sipariş bulunamadı"))
	})

	It("should batch delete orders", func() {
		do(http.MethodPost, "/orders", `{}`)
		do(http.MethodPost, "/orders", `{}`)

		Expect(do(http.MethodDelete, "/orders", "").Code).To(Equal(http.StatusBadRequest))

		w := do(http.MethodDelete, "/orders?ids=[2]", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"success":true`))
		Expect(do(http.MethodGet, "/orders/2", "").Code).To(Equal(http.StatusNotFound))
	})

	Describe("nested products", func() {
		BeforeEach(func() {
			Expect(do(http.MethodPost, "/orders", `{"branch":"Merkez"}`).Code).To(Equal(http.StatusCreated))
		})

		It("should run the product lifecycle", func() {
			w := do(http.MethodPost, "/orders/1/products", `{"productName":"Profil","quantity":12,"insulationAssembly":true}`)
			Expect(w.Code).To(Equal(http.StatusCreated))

			var created order.Product
			Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
			Expect(created.ID).To(Equal(int64(1)))
			Expect(created.Quantity.String()).To(Equal("12"))

			w = do(http.MethodPut, "/orders/1/products", `{"id":1,"color":"BRONZ","images":["/uploads/1-a.png"]}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			w = do(http.MethodGet, "/orders/1/products", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			var products []order.Product
			Expect(json.Unmarshal(w.Body.Bytes(), &products)).To(Succeed())
			Expect(products).To(HaveLen(1))
			Expect(products[0].Color).To(Equal("BRONZ"))
			Expect(products[0].ProductName).To(Equal("Profil"))
			Expect(products[0].Images).To(Equal([]string{"/uploads/1-a.png"}))

			w = do(http.MethodDelete, "/orders/1/products?productId=1", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			w = do(http.MethodDelete, "/orders/1/products?productId=1", "")
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should return 404 for a missing order or product", func() {
			Expect(do(http.MethodGet, "/orders/9/products", "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodPost, "/orders/9/products", `{}`).Code).To(Equal(http.StatusNotFound))

			w := do(http.MethodPut, "/orders/1/products", `{"id":5,"color":"x"}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("Ürün bulunamadı"))
		})

		It("should require a numeric productId on delete", func() {
			Expect(do(http.MethodDelete, "/orders/1/products", "").Code).To(Equal(http.StatusBadRequest))
			Expect(do(http.MethodDelete, "/orders/1/products?productId=x", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a non-numeric order id", func() {
			Expect(do(http.MethodGet, "/orders/abc/products", "").Code).To(Equal(http.StatusBadRequest))
		})
	})
})
