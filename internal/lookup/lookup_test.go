package lookup_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/frahmantamala/order-admin/internal/lookup"
	"github.com/frahmantamala/order-admin/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLookup(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Lookup Suite")
}

var _ = Describe("Lookup", func() {
	var (
		service *lookup.Service
		router  *chi.Mux
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = lookup.NewService(lookup.DefaultCatalog(), slogger)
		handler := lookup.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/lookups", handler.GetLookups)
		router.Get("/lookups/{kind}", handler.GetLookup)
	})

	It("should serve the whole catalog", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lookups", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var body map[string]json.RawMessage
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body).To(HaveKey("branches"))
		Expect(body).To(HaveKey("priceUnits"))
		Expect(body).To(HaveKey("adminOptions"))

		var companies []lookup.Company
		Expect(json.Unmarshal(body["companies"], &companies)).To(Succeed())
		Expect(companies).To(ContainElement(lookup.Company{Name: "ALUCOREX", No: "210027886"}))
	})

	It("should serve one list by name", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lookups/departments", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var values []string
		Expect(json.Unmarshal(w.Body.Bytes(), &values)).To(Succeed())
		Expect(values).To(ContainElement("Yönetim"))
	})

	It("should answer 404 for unknown lists", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lookups/planets", nil))
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should resolve company numbers", func() {
		no, ok := service.CompanyNo("XYZ LTD")
		Expect(ok).To(BeTrue())
		Expect(no).To(Equal("210027895"))

		_, ok = service.CompanyNo("Bilinmeyen")
		Expect(ok).To(BeFalse())
	})
})
