package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"stocklinker/internal/feature/catalog/domain/entity"
	"stocklinker/internal/feature/catalog/usecase"
)

// dbMasterVersion はDB由来のマスターデータに付与するバージョン文字列です。
const dbMasterVersion = "db"

// importBatchSize はマスター取り込み時の一括INSERT件数です。
const importBatchSize = 500

// SecurityModel is the GORM model for the master_securities table.
type SecurityModel struct {
	ID          uint     `gorm:"primaryKey"`
	Code        string   `gorm:"size:20;not null;uniqueIndex"`
	Name        string   `gorm:"size:255;not null"`
	NameReading string   `gorm:"size:255;not null;default:''"`
	Sector      string   `gorm:"size:100;not null;default:''"`
	Market      string   `gorm:"size:100;not null;default:''"`
	Themes      []string `gorm:"serializer:json"`
	SortKey     int      `gorm:"not null;default:0;index"`
}

// TableName returns the table name for GORM.
func (SecurityModel) TableName() string {
	return "master_securities"
}

// ToEntity converts the GORM model to a domain entity.
func (m *SecurityModel) ToEntity() entity.MasterSecurity {
	themes := m.Themes
	if themes == nil {
		themes = []string{}
	}
	return entity.MasterSecurity{
		Code:        m.Code,
		Name:        m.Name,
		NameReading: m.NameReading,
		Sector:      m.Sector,
		Market:      m.Market,
		Themes:      themes,
	}
}

// securityGorm はMasterSourceインターフェースのGORM実装です。
// マスターデータをDBに取り込んだ環境で、同梱JSONの代わりに使用します。
type securityGorm struct {
	db *gorm.DB
}

var _ usecase.MasterSource = (*securityGorm)(nil)

// NewSecurityRepository は指定されたDB接続でsecurityGormの新しいインスタンスを生成します。
func NewSecurityRepository(db *gorm.DB) *securityGorm {
	return &securityGorm{db: db}
}

// LoadMaster はsort_key順にすべての銘柄を読み込み、マスターデータとして返します。
func (r *securityGorm) LoadMaster(ctx context.Context) (*entity.MasterData, error) {
	var models []SecurityModel
	if err := r.db.WithContext(ctx).
		Order("sort_key ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	stocks := make([]entity.MasterSecurity, 0, len(models))
	for i := range models {
		stocks = append(stocks, models[i].ToEntity())
	}
	return &entity.MasterData{
		Version: dbMasterVersion,
		Source:  SecurityModel{}.TableName(),
		Count:   len(stocks),
		Stocks:  stocks,
	}, nil
}

// ReplaceAll はテーブルの内容をマスターデータで置き換えます。
// 元の並び順はsort_keyとして保存します。
func (r *securityGorm) ReplaceAll(ctx context.Context, data *entity.MasterData) (int, error) {
	models := make([]SecurityModel, 0, len(data.Stocks))
	seen := make(map[string]struct{}, len(data.Stocks))
	for i, s := range data.Stocks {
		if _, ok := seen[s.Code]; ok {
			continue
		}
		seen[s.Code] = struct{}{}
		models = append(models, SecurityModel{
			Code:        s.Code,
			Name:        s.Name,
			NameReading: s.NameReading,
			Sector:      s.Sector,
			Market:      s.Market,
			Themes:      s.Themes,
			SortKey:     i,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SecurityModel{}).Error; err != nil {
			return fmt.Errorf("clear master securities: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(models, importBatchSize).Error; err != nil {
			return fmt.Errorf("insert master securities: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(models), nil
}
