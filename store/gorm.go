package store

import (
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is the sqlite row backing one collection key.
type KVEntry struct {
	Key   string `gorm:"primaryKey;column:k"`
	Value []byte `gorm:"column:v"`
}

func (KVEntry) TableName() string { return "kv_entries" }

// GormStore persists collections as JSON rows in a kv_entries table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(key string, out any) bool {
	var entry KVEntry
	if err := s.db.First(&entry, "k = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("key", key).Warn("kv read failed, treating as empty")
		}
		return false
	}
	if err := json.Unmarshal(entry.Value, out); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("kv value corrupt, treating as empty")
		return false
	}
	return true
}

func (s *GormStore) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v"}),
	}).Create(&KVEntry{Key: key, Value: raw}).Error
}

func (s *GormStore) Delete(key string) error {
	return s.db.Delete(&KVEntry{}, "k = ?", key).Error
}

func (s *GormStore) Update(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
