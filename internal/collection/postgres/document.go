package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/order-admin/internal/collection"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one collection stored as a single row.
type Document struct {
	Name      string    `gorm:"primaryKey;column:name;size:128"`
	Body      string    `gorm:"column:body;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Document) TableName() string {
	return "collection_documents"
}

// DocumentBackend implements collection.Backend on top of gorm, so the same
// whole-document semantics run on sqlite or postgres.
type DocumentBackend struct {
	db *gorm.DB
}

func NewDocumentBackend(db *gorm.DB) *DocumentBackend {
	return &DocumentBackend{db: db}
}

// AutoMigrate creates collection_documents. Postgres deployments use the goose
// migration instead; sqlite relies on this.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Document{})
}

func (b *DocumentBackend) Load(ctx context.Context, name string) ([]byte, error) {
	var doc Document
	err := b.db.WithContext(ctx).Where("name = ?", name).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", collection.ErrCollectionMissing, name)
		}
		return nil, err
	}
	return []byte(doc.Body), nil
}

func (b *DocumentBackend) Save(ctx context.Context, name string, data []byte) error {
	doc := Document{
		Name:      name,
		Body:      string(data),
		UpdatedAt: time.Now(),
	}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
}
