package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/collection"
	"github.com/frahmantamala/order-admin/internal/core/events"
)

// errUnchanged aborts an update that would not change the document.
var errUnchanged = errors.New("order unchanged")

// RepositoryAPI is satisfied by *collection.Store[Order].
type RepositoryAPI interface {
	List(ctx context.Context, filter func(Order) bool) ([]Order, error)
	GetByID(ctx context.Context, id int64) (Order, error)
	Insert(ctx context.Context, record Order) (Order, error)
	Update(ctx context.Context, id int64, mutate func(Order) (Order, error)) (Order, error)
	Delete(ctx context.Context, ids []int64) ([]int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// CompanyDirectory resolves a company name to its registered number.
type CompanyDirectory interface {
	CompanyNo(name string) (string, bool)
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	companies CompanyDirectory
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// WithCompanyDirectory lets Create fill a missing companyNo from the
// company name.
func (s *Service) WithCompanyDirectory(companies CompanyDirectory) *Service {
	s.companies = companies
	return s
}

func (s *Service) List(ctx context.Context, filter OrderFilter) ([]Order, error) {
	pred, err := filter.Predicate()
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.List(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "failed to get order")
	}
	return &o, nil
}

// Create stores o under a fresh id. A missing product list becomes empty.
func (s *Service) Create(ctx context.Context, o Order) (*Order, error) {
	o.Products = normalizeProducts(o.Products)
	if o.CompanyNo.IsZero() && o.CompanyName != "" && s.companies != nil {
		if no, ok := s.companies.CompanyNo(o.CompanyName); ok {
			o.CompanyNo = collection.Text(no)
		}
	}

	created, err := s.repo.Insert(ctx, o)
	if err != nil {
		return nil, mapStoreError(err, "failed to create order")
	}

	s.logger.Info("order created", "order_id", created.ID, "products", len(created.Products))
	s.publish(ctx, events.NewRecordEvent(events.EventTypeOrderCreated, []int64{created.ID}, internal.UserIDFromContext(ctx)))
	return &created, nil
}

func (s *Service) Update(ctx context.Context, patch OrderPatch) (*Order, error) {
	if patch.ID == nil {
		return nil, internal.NewValidationFieldError("id", "Sipariş ID gereklidir", internal.ErrCodeInvalidID)
	}

	updated, err := s.repo.Update(ctx, *patch.ID, func(current Order) (Order, error) {
		return patch.Apply(current), nil
	})
	if err != nil {
		return nil, mapStoreError(err, "failed to update order")
	}

	s.logger.Info("order updated", "order_id", updated.ID)
	s.publish(ctx, events.NewRecordEvent(events.EventTypeOrderUpdated, []int64{updated.ID}, internal.UserIDFromContext(ctx)))
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, ids []int64) (int, error) {
	removed, err := s.repo.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orders: %w", err)
	}

	s.logger.Info("orders deleted", "requested", len(ids), "removed", len(removed))
	if len(removed) > 0 {
		s.publish(ctx, events.NewRecordEvent(events.EventTypeOrderDeleted, removed, internal.UserIDFromContext(ctx)))
	}
	return len(removed), nil
}

func (s *Service) ListProducts(ctx context.Context, orderID int64) ([]Product, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapStoreError(err, "failed to load products")
	}
	if o.Products == nil {
		return []Product{}, nil
	}
	return o.Products, nil
}

// AddProduct appends p to the order with the next id of that order.
func (s *Service) AddProduct(ctx context.Context, orderID int64, p Product) (*Product, error) {
	var created Product
	_, err := s.repo.Update(ctx, orderID, func(o Order) (Order, error) {
		created = p.WithID(collection.NextID(o.Products))
		if created.Images == nil {
			created.Images = []string{}
		}
		o.Products = append(append([]Product{}, o.Products...), created)
		return o, nil
	})
	if err != nil {
		return nil, mapStoreError(err, "failed to create product")
	}

	s.logger.Info("product created", "order_id", orderID, "product_id", created.ID)
	s.publish(ctx, events.NewProductEvent(events.EventTypeProductCreated, orderID, created.ID, internal.UserIDFromContext(ctx)))
	return &created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, orderID int64, patch ProductPatch) (*Product, error) {
	if patch.ID == nil {
		return nil, internal.NewValidationFieldError("id", "Ürün ID gereklidir", internal.ErrCodeInvalidID)
	}
	productID := *patch.ID

	var updated Product
	_, err := s.repo.Update(ctx, orderID, func(o Order) (Order, error) {
		i := o.productIndex(productID)
		if i < 0 {
			return o, internal.ErrProductNotFound
		}
		products := append([]Product{}, o.Products...)
		updated = patch.Apply(products[i]).WithID(productID)
		products[i] = updated
		o.Products = products
		return o, nil
	})
	if err != nil {
		return nil, mapStoreError(err, "failed to update product")
	}

	s.logger.Info("product updated", "order_id", orderID, "product_id", productID)
	s.publish(ctx, events.NewProductEvent(events.EventTypeProductUpdated, orderID, productID, internal.UserIDFromContext(ctx)))
	return &updated, nil
}

// DeleteProduct removes the product from the order. Removing a product the
// order does not have succeeds and reports false.
func (s *Service) DeleteProduct(ctx context.Context, orderID, productID int64) (bool, error) {
	_, err := s.repo.Update(ctx, orderID, func(o Order) (Order, error) {
		i := o.productIndex(productID)
		if i < 0 {
			return o, errUnchanged
		}
		products := make([]Product, 0, len(o.Products)-1)
		products = append(products, o.Products[:i]...)
		products = append(products, o.Products[i+1:]...)
		o.Products = products
		return o, nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, mapStoreError(err, "failed to delete product")
	}

	s.logger.Info("product deleted", "order_id", orderID, "product_id", productID)
	s.publish(ctx, events.NewProductEvent(events.EventTypeProductDeleted, orderID, productID, internal.UserIDFromContext(ctx)))
	return true, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func mapStoreError(err error, msg string) error {
	if errors.Is(err, collection.ErrNotFound) {
		return internal.ErrOrderNotFound
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
