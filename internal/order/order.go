package order

import (
	"encoding/json"

	"github.com/frahmantamala/order-admin/internal/collection"
)

type Order struct {
	ID               int64             `json:"id"`
	Branch           string            `json:"branch"`
	Year             collection.Scalar `json:"year"`
	OrderSeries      collection.Scalar `json:"orderSeries"`
	OrderNo          collection.Scalar `json:"orderNo"`
	OrderDate        string            `json:"orderDate"`
	OrderType        string            `json:"orderType"`
	CompanyNo        collection.Scalar `json:"companyNo"`
	CompanyName      string            `json:"companyName"`
	PaymentMethod    string            `json:"paymentMethod"`
	PaymentDueDate   collection.Scalar `json:"paymentDueDate"`
	DeliveryMethod   string            `json:"deliveryMethod"`
	DocumentApproval bool              `json:"documentApproval"`
	Representative   string            `json:"representative"`
	// UserID is the representative reference used by older records.
	UserID   *int64    `json:"userId,omitempty"`
	Products []Product `json:"products"`
}

// UnmarshalJSON treats a missing or null products list as empty; older
// records were written without one.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Products == nil {
		decoded.Products = []Product{}
	}
	*o = Order(decoded)
	return nil
}

func (o Order) GetID() int64 {
	return o.ID
}

func (o Order) WithID(id int64) Order {
	o.ID = id
	return o
}

// Product ids are unique within their order only.
type Product struct {
	ID                 int64             `json:"id"`
	ProductNo          collection.Scalar `json:"productNo"`
	SequenceNo         collection.Scalar `json:"sequenceNo"`
	ProductName        string            `json:"productName"`
	Profile            string            `json:"profile"`
	Surface            string            `json:"surface"`
	Color              string            `json:"color"`
	Alloy              string            `json:"alloy"`
	Hardness           string            `json:"hardness"`
	CompanyProductNo   collection.Scalar `json:"companyProductNo"`
	ProfileNo          collection.Scalar `json:"profileNo"`
	Weight             collection.Scalar `json:"weight"`
	InsulationAssembly bool              `json:"insulationAssembly"`
	Length             collection.Scalar `json:"length"`
	Quantity           collection.Scalar `json:"quantity"`
	Amount             collection.Scalar `json:"amount"`
	PriceUnit          string            `json:"priceUnit"`
	Images             []string          `json:"images"`
}

func (p Product) GetID() int64 {
	return p.ID
}

func (p Product) WithID(id int64) Product {
	p.ID = id
	return p
}

func (o *Order) productIndex(id int64) int {
	for i := range o.Products {
		if o.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// normalizeProducts gives every product a usable id. Products without an id,
// or repeating one already seen, get the next free id of the order.
func normalizeProducts(products []Product) []Product {
	out := make([]Product, 0, len(products))
	seen := make(map[int64]bool, len(products))
	for _, p := range products {
		if p.ID <= 0 || seen[p.ID] {
			p.ID = 0
		} else {
			seen[p.ID] = true
		}
		out = append(out, p)
	}
	for i := range out {
		if out[i].ID == 0 {
			out[i].ID = collection.NextID(out)
		}
		if out[i].Images == nil {
			out[i].Images = []string{}
		}
	}
	return out
}
