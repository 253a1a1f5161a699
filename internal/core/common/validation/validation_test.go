package validation_test

import (
	"strings"
	"testing"

	errors "github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidationBuilder", func() {
	It("should pass when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("username", "ahmet").Required().MaxLength(10)
		v.Field("email", "ahmet@example.com").Email()
		Expect(v.Validate()).To(BeNil())
	})

	It("should report the first failure of each field", func() {
		v := validation.NewValidator()
		v.Field("username", "").Named("Kullanıcı adı").Required().MaxLength(3)
		v.Field("email", "not-an-address").Named("E-posta").Email()

		appErr := v.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.StatusCode).To(Equal(400))

		details, ok := appErr.Details.(errors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(2))
		Expect(details.Errors[0].Field).To(Equal("username"))
		Expect(details.Errors[0].Message).To(Equal("Kullanıcı adı gereklidir"))
		Expect(details.Errors[1].Field).To(Equal("email"))
	})

	It("should accept an empty email", func() {
		v := validation.NewValidator()
		v.Field("email", "").Email()
		Expect(v.Validate()).To(BeNil())
	})

	It("should count runes for MaxLength", func() {
		v := validation.NewValidator()
		v.Field("name", "ğüşöç").MaxLength(5)
		Expect(v.Validate()).To(BeNil())
	})

	It("should treat a nil string pointer as missing", func() {
		var s *string
		v := validation.NewValidator()
		v.Field("username", s).Required()
		Expect(v.Validate()).NotTo(BeNil())
	})
})

var _ = Describe("ValidateCredentials", func() {
	It("should require both fields", func() {
		appErr := validation.ValidateCredentials("ahmet", "")
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.GetDetailedMessage()).To(Equal("Şifre gereklidir"))
	})

	It("should pass with both fields", func() {
		Expect(validation.ValidateCredentials("ahmet", "secret")).To(BeNil())
	})
})

var _ = Describe("ValidatePassword", func() {
	It("should count bytes, not characters", func() {
		Expect(validation.ValidatePassword(strings.Repeat("ş", 36))).To(BeNil())
		Expect(validation.ValidatePassword(strings.Repeat("ş", 37))).NotTo(BeNil())
	})
})
