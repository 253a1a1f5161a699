package order

import "github.com/frahmantamala/order-admin/internal/collection"

// OrderPatch lists the fields a PUT /orders changes; nil means untouched.
// Products are managed through the nested product endpoints only.
type OrderPatch struct {
	ID               *int64             `json:"id"`
	Branch           *string            `json:"branch"`
	Year             *collection.Scalar `json:"year"`
	OrderSeries      *collection.Scalar `json:"orderSeries"`
	OrderNo          *collection.Scalar `json:"orderNo"`
	OrderDate        *string            `json:"orderDate"`
	OrderType        *string            `json:"orderType"`
	CompanyNo        *collection.Scalar `json:"companyNo"`
	CompanyName      *string            `json:"companyName"`
	PaymentMethod    *string            `json:"paymentMethod"`
	PaymentDueDate   *collection.Scalar `json:"paymentDueDate"`
	DeliveryMethod   *string            `json:"deliveryMethod"`
	DocumentApproval *bool              `json:"documentApproval"`
	Representative   *string            `json:"representative"`
	UserID           *int64             `json:"userId"`
}

func (p *OrderPatch) Apply(o Order) Order {
	setString(&o.Branch, p.Branch)
	setScalar(&o.Year, p.Year)
	setScalar(&o.OrderSeries, p.OrderSeries)
	setScalar(&o.OrderNo, p.OrderNo)
	setString(&o.OrderDate, p.OrderDate)
	setString(&o.OrderType, p.OrderType)
	setScalar(&o.CompanyNo, p.CompanyNo)
	setString(&o.CompanyName, p.CompanyName)
	setString(&o.PaymentMethod, p.PaymentMethod)
	setScalar(&o.PaymentDueDate, p.PaymentDueDate)
	setString(&o.DeliveryMethod, p.DeliveryMethod)
	if p.DocumentApproval != nil {
		o.DocumentApproval = *p.DocumentApproval
	}
	setString(&o.Representative, p.Representative)
	if p.UserID != nil {
		id := *p.UserID
		o.UserID = &id
	}
	return o
}

// ProductPatch lists the fields a PUT on an order's products changes.
type ProductPatch struct {
	ID                 *int64             `json:"id"`
	ProductNo          *collection.Scalar `json:"productNo"`
	SequenceNo         *collection.Scalar `json:"sequenceNo"`
	ProductName        *string            `json:"productName"`
	Profile            *string            `json:"profile"`
	Surface            *string            `json:"surface"`
	Color              *string            `json:"color"`
	Alloy              *string            `json:"alloy"`
	Hardness           *string            `json:"hardness"`
	CompanyProductNo   *collection.Scalar `json:"companyProductNo"`
	ProfileNo          *collection.Scalar `json:"profileNo"`
	Weight             *collection.Scalar `json:"weight"`
	InsulationAssembly *bool              `json:"insulationAssembly"`
	Length             *collection.Scalar `json:"length"`
	Quantity           *collection.Scalar `json:"quantity"`
	Amount             *collection.Scalar `json:"amount"`
	PriceUnit          *string            `json:"priceUnit"`
	Images             *[]string          `json:"images"`
}

func (p *ProductPatch) Apply(pr Product) Product {
	setScalar(&pr.ProductNo, p.ProductNo)
	setScalar(&pr.SequenceNo, p.SequenceNo)
	setString(&pr.ProductName, p.ProductName)
	setString(&pr.Profile, p.Profile)
	setString(&pr.Surface, p.Surface)
	setString(&pr.Color, p.Color)
	setString(&pr.Alloy, p.Alloy)
	setString(&pr.Hardness, p.Hardness)
	setScalar(&pr.CompanyProductNo, p.CompanyProductNo)
	setScalar(&pr.ProfileNo, p.ProfileNo)
	setScalar(&pr.Weight, p.Weight)
	if p.InsulationAssembly != nil {
		pr.InsulationAssembly = *p.InsulationAssembly
	}
	setScalar(&pr.Length, p.Length)
	setScalar(&pr.Quantity, p.Quantity)
	setScalar(&pr.Amount, p.Amount)
	setString(&pr.PriceUnit, p.PriceUnit)
	if p.Images != nil {
		pr.Images = append([]string{}, (*p.Images)...)
	}
	return pr
}

type DeleteResponse struct {
	Success bool `json:"success"`
	Deleted int  `json:"deleted"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setScalar(dst *collection.Scalar, src *collection.Scalar) {
	if src != nil {
		*dst = *src
	}
}
