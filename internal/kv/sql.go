package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type record struct {
	Name      string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

func (record) TableName() string { return "kv_records" }

// SQLStore keeps values in a single SQLite table.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQL opens (creating if needed) the SQLite database at path.
func OpenSQL(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(key string) ([]byte, error) {
	var r record
	err := s.db.Where("name = ?", key).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return r.Value, nil
}

func (s *SQLStore) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	r := record{Name: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&r).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(key string) error {
	if err := s.db.Where("name = ?", key).Delete(&record{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
