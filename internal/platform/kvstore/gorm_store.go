package kvstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceModel is the GORM model for the preferences table.
type PreferenceModel struct {
	Key       string `gorm:"column:pref_key;primaryKey;size:100"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (PreferenceModel) TableName() string {
	return "preferences"
}

// GormStore はpreferencesテーブルに値を保存するStore実装です。
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore は指定されたDB接続でGormStoreを生成します。
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get は指定キーの値を返します。
func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var m PreferenceModel
	err := s.db.WithContext(ctx).Where("pref_key = ?", key).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Value, true, nil
}

// Set は指定キーの値をUPSERTします。
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	m := PreferenceModel{Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pref_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&m).Error
}
