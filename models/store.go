package models

import (
	"context"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/ipnlife/clinic_backend/utils"
	"gorm.io/gorm"
)

type Store struct {
	StoreId    int    `gorm:"primary_key" json:"store_id"`
	StoreName  string `gorm:"size:100;not null" json:"store_name"`
	Account    string `gorm:"size:100;uniqueIndex;not null" json:"account"`
	Password   string `gorm:"size:255;not null" json:"-"`
	Permission string `gorm:"size:20;default:'basic'" json:"permission"`
}

// Level reports the tier label clients show next to the store name.
// Admin accounts are the head office, everyone else is a branch.
func (s *Store) Level() string {
	if s.Permission == "admin" {
		return "總店"
	}
	return "分店"
}

func FindStoreByAccount(ctx context.Context, account string) (*Store, error) {
	db := config.GetDB()
	var store Store
	err := db.WithContext(ctx).First(&store, "account = ?", account).Error
	if err == gorm.ErrRecordNotFound {
		return nil, notFoundError("account %q not found", account)
	} else if err != nil {
		return nil, err
	}
	return &store, nil
}

func GetStoreInfo(ctx context.Context, storeId int) (*Store, error) {
	db := config.GetDB()
	var store Store
	err := db.WithContext(ctx).First(&store, "store_id = ?", storeId).Error
	if err == gorm.ErrRecordNotFound {
		return nil, notFoundError("store %d not found", storeId)
	} else if err != nil {
		return nil, err
	}
	return &store, nil
}

func GetAllStores(ctx context.Context) ([]*Store, error) {
	db := config.GetDB()
	var stores []*Store
	if err := db.WithContext(ctx).Order("store_name").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// UpdateStorePassword stores a bcrypt hash, never the raw password.
func UpdateStorePassword(ctx context.Context, account string, newPassword string) error {
	db := config.GetDB()
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	result := db.WithContext(ctx).Model(&Store{}).Where("account = ?", account).
		Update("password", string(hashed))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundError("account %q not found", account)
	}
	return nil
}
