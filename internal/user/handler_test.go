package user_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/order-admin/internal/auth"
	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/frahmantamala/order-admin/internal/user"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Handler Integration", func() {
	var (
		router  *chi.Mux
		handler *user.Handler
		slogger *slog.Logger
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store := newUserStore(GinkgoT().TempDir())
		service := user.NewService(store, &fakeHasher{}, nil, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler = user.NewHandler(baseHandler, service)

		router = chi.NewRouter()
		router.Get("/users", handler.ListUsers)
		router.Post("/users", handler.CreateUser)
		router.Put("/users", handler.UpdateUser)
		router.Delete("/users", handler.DeleteUsers)
		router.Get("/users/{id}", handler.GetUser)
	})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create bob with id 1 and never return the password", func() {
		w := do(http.MethodPost, "/users", `{"username":"bob","password":"x"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created["id"]).To(BeNumerically("==", 1))
		Expect(created["username"]).To(Equal("bob"))

		w = do(http.MethodGet, "/users/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		var fetched map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &fetched)).To(Succeed())
		Expect(fetched).To(Equal(created))
	})

	It("should list users without passwords", func() {
		do(http.MethodPost, "/users", `{"username":"a","password":"x"}`)
		do(http.MethodPost, "/users", `{"username":"b","password":"x"}`)

		w := do(http.MethodGet, "/users", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		var users []user.UserResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &users)).To(Succeed())
		Expect(users).To(HaveLen(2))
	})

	It("should return 404 for an unknown user", func() {
		w := do(http.MethodGet, "/users/7", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Kullanıcı bulunamadı"))
	})

	It("should update by id in the body and ignore null fields", func() {
		do(http.MethodPost, "/users", `{"username":"bob","password":"x","name":"Bob","role":"SATIŞ TEMSİLCİSİ"}`)

		w := do(http.MethodPut, "/users", `{"id":1,"name":"Robert","role":null,"password":""}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp user.UserResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Name).To(Equal("Robert"))
		Expect(resp.Role).To(Equal("SATIŞ TEMSİLCİSİ"))
		Expect(resp.Username).To(Equal("bob"))
	})

	It("should return 404 when updating a missing user", func() {
		w := do(http.MethodPut, "/users", `{"id":5,"name":"x"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject a malformed body", func() {
		w := do(http.MethodPost, "/users", `{"username":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	Context("with bcrypt hashing", func() {
		long := strings.Repeat("a", 73)

		BeforeEach(func() {
			store := newUserStore(GinkgoT().TempDir())
			service := user.NewService(store, auth.NewBcryptHasher(4), nil, slogger)
			handler = user.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

			router = chi.NewRouter()
			router.Post("/users", handler.CreateUser)
			router.Put("/users", handler.UpdateUser)
		})

		It("should reject a password longer than 72 bytes on create", func() {
			w := do(http.MethodPost, "/users", `{"username":"bob","password":"`+long+`"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Şifre en fazla 72 bayt olabilir"))
		})

		It("should reject a password longer than 72 bytes on update", func() {
			w := do(http.MethodPost, "/users", `{"username":"bob","password":"secret"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))

			w = do(http.MethodPut, "/users", `{"id":1,"password":"`+long+`"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should accept exactly 72 bytes", func() {
			w := do(http.MethodPost, "/users", `{"username":"bob","password":"`+strings.Repeat("a", 72)+`"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))
		})
	})

	It("should return 409 for a duplicate username", func() {
		do(http.MethodPost, "/users", `{"username":"bob","password":"x"}`)
		w := do(http.MethodPost, "/users", `{"username":"bob","password":"y"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should batch delete and require the ids parameter", func() {
		do(http.MethodPost, "/users", `{"username":"a","password":"x"}`)
		do(http.MethodPost, "/users", `{"username":"b","password":"x"}`)

		w := do(http.MethodDelete, "/users", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Silinecek kullanıcı ID'leri gereklidir"))

		w = do(http.MethodDelete, "/users?ids=%5B1%2C3%5D", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp user.DeleteResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Success).To(BeTrue())
		Expect(resp.Deleted).To(Equal(1))

		w = do(http.MethodGet, "/users/2", "")
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
