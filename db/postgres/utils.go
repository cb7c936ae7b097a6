package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOne finds one record that matches given conditions
func FindOne(ctx context.Context, db *gorm.DB, dest interface{}, conds ...interface{}) error {
	return db.WithContext(ctx).Where(conds[0], conds[1:]...).First(dest).Error
}

// Delete deletes record(s) matching given conditions and reports how many
func Delete(ctx context.Context, db *gorm.DB, model interface{}, conds ...interface{}) (int64, error) {
	res := db.WithContext(ctx).Where(conds[0], conds[1:]...).Delete(model)
	return res.RowsAffected, res.Error
}

// Upsert performs an insert or update (using ON CONFLICT)
func Upsert(ctx context.Context, db *gorm.DB, value interface{}, conflictColumns []string, updateColumns []string) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   columnsToClause(conflictColumns),
		DoUpdates: clause.AssignmentColumns(updateColumns),
	}).Create(value).Error
}

// AutoMigrate runs auto migration for given models
func AutoMigrate(ctx context.Context, db *gorm.DB, models ...interface{}) error {
	return db.WithContext(ctx).AutoMigrate(models...)
}

// Helper function to convert string slice to clause columns
func columnsToClause(columns []string) []clause.Column {
	result := make([]clause.Column, len(columns))
	for i, col := range columns {
		result[i] = clause.Column{Name: col}
	}
	return result
}
