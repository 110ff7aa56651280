package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/streamline-api/internal/utils"
)

// Paginate applies an optional cap and offset to a GORM query.
// A zero limit leaves the query uncapped.
func Paginate(params utils.ListParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OwnedBy scopes a query to rows whose user_id equals ownerID.
func OwnedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}

// NewestFirst orders rows by creation time, newest first.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
