// internal/store/persistence.go
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Persistence stores the serialized application state as one blob under a
// storage key, the device-storage equivalent of the mobile app's
// AsyncStorage entry.
type Persistence interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, blob []byte) error
}

type stateBlob struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

// SQLitePersistence keeps state blobs in a local sqlite file.
type SQLitePersistence struct {
	db *gorm.DB
}

func NewSQLitePersistence(path string) (*SQLitePersistence, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := db.AutoMigrate(&stateBlob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	return &SQLitePersistence{db: db}, nil
}

func (p *SQLitePersistence) Load(key string) ([]byte, bool, error) {
	var blob stateBlob
	err := p.db.First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state %q: %w", key, err)
	}
	return blob.Value, true, nil
}

func (p *SQLitePersistence) Save(key string, value []byte) error {
	err := p.db.Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&stateBlob{Key: key, Value: value, UpdatedAt: time.Now()}).Error
	if err != nil {
		return fmt.Errorf("save state %q: %w", key, err)
	}
	return nil
}

// MemoryPersistence backs tests; FailNext injects a single save error.
type MemoryPersistence struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	failNext error
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{blobs: make(map[string][]byte)}
}

func (p *MemoryPersistence) FailNext(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = err
}

func (p *MemoryPersistence) Load(key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	blob, ok := p.blobs[key]
	return blob, ok, nil
}

func (p *MemoryPersistence) Save(key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext != nil {
		err := p.failNext
		p.failNext = nil
		return err
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	p.blobs[key] = cp
	return nil
}
