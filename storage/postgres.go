package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValue is the row every stored key maps to.
type KeyValue struct {
	Key       string `gorm:"primaryKey;type:varchar(255)"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (KeyValue) TableName() string {
	return "invoice_store"
}

type postgresStorage struct {
	db *gorm.DB
}

// NewPostgresStorage expects the KeyValue table to be migrated already.
func NewPostgresStorage(db *gorm.DB) Storage {
	return &postgresStorage{db: db}
}

func (s *postgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var row KeyValue
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: postgres get %s: %w", key, err)
	}
	return []byte(row.Value), nil
}

func (s *postgresStorage) Set(ctx context.Context, key string, value []byte) error {
	row := KeyValue{Key: key, Value: string(value)}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("storage: postgres set %s: %w", key, err)
	}
	return nil
}

func (s *postgresStorage) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&KeyValue{}).Error
	if err != nil {
		return fmt.Errorf("storage: postgres delete %s: %w", key, err)
	}
	return nil
}
