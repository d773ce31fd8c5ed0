package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/wordlookup/internal/entities"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("setting not found")

// Get returns the raw value stored under key.
func (d *Database) Get(ctx context.Context, key string) (string, error) {
	var setting entities.Setting
	err := d.DB.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Put creates or replaces the value stored under key.
func (d *Database) Put(ctx context.Context, key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	return d.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// Delete removes key. Deleting a missing key is not an error.
func (d *Database) Delete(ctx context.Context, key string) error {
	return d.DB.WithContext(ctx).Where("key = ?", key).Delete(&entities.Setting{}).Error
}
