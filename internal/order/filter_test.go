package order_test

import (
	"github.com/frahmantamala/order-admin/internal/order"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func legacyID(id int64) *int64 { return &id }

var _ = Describe("OrderFilter", func() {
	orders := []order.Order{
		{ID: 1, OrderDate: "2024-01-01T00:00:00.000Z", Representative: "Ali Veli"},
		{ID: 2, OrderDate: "2024-01-15T13:45:00Z", Representative: "ali veli"},
		{ID: 3, OrderDate: "2024-01-31T23:59:59Z", Representative: "Ayşe Kaya"},
		{ID: 4, OrderDate: "2024-02-01", Representative: "Ali Veli"},
		{ID: 5, OrderDate: "not a date", Representative: "Ali Veli"},
		{ID: 6, OrderDate: "2024-01-20", UserID: legacyID(7)},
	}

	apply := func(f order.OrderFilter) []int64 {
		pred, err := f.Predicate()
		Expect(err).NotTo(HaveOccurred())
		var ids []int64
		for _, o := range orders {
			if pred == nil || pred(o) {
				ids = append(ids, o.ID)
			}
		}
		return ids
	}

	It("should not filter when nothing is set", func() {
		pred, err := order.OrderFilter{}.Predicate()
		Expect(err).NotTo(HaveOccurred())
		Expect(pred).To(BeNil())
	})

	It("should include both bounds of a date-only range", func() {
		ids := apply(order.OrderFilter{StartDate: "2024-01-01", EndDate: "2024-01-31"})
		Expect(ids).To(Equal([]int64{1, 2, 3, 6}))
	})

	It("should ignore a range with only one bound", func() {
		ids := apply(order.OrderFilter{StartDate: "2024-01-01"})
		Expect(ids).To(HaveLen(len(orders)))
	})

	It("should honour timestamps in the bounds", func() {
		ids := apply(order.OrderFilter{StartDate: "2024-01-15T00:00:00Z", EndDate: "2024-01-15T12:00:00Z"})
		Expect(ids).To(BeEmpty())
	})

	It("should match the representative exactly and case-sensitively", func() {
		ids := apply(order.OrderFilter{Representative: "Ali Veli"})
		Expect(ids).To(Equal([]int64{1, 4, 5}))
	})

	It("should combine date range and representative", func() {
		ids := apply(order.OrderFilter{StartDate: "2024-01-01", EndDate: "2024-01-31", Representative: "Ali Veli"})
		Expect(ids).To(Equal([]int64{1}))
	})

	It("should fall back to the legacy numeric userId", func() {
		ids := apply(order.OrderFilter{Representative: "7"})
		Expect(ids).To(Equal([]int64{6}))
	})

	DescribeTable("should ignore placeholder representatives",
		func(value string) {
			Expect(apply(order.OrderFilter{Representative: value})).To(HaveLen(len(orders)))
		},
		Entry("null", "null"),
		Entry("undefined", "undefined"),
		Entry("blank", "  "),
	)

	It("should reject an unparseable bound", func() {
		_, err := order.OrderFilter{StartDate: "yesterday", EndDate: "2024-01-31"}.Predicate()
		Expect(err).To(HaveOccurred())
	})

	It("should accept dotted day-first dates", func() {
		ids := apply(order.OrderFilter{StartDate: "01.02.2024", EndDate: "01.02.2024"})
		Expect(ids).To(Equal([]int64{4}))
	})
})
