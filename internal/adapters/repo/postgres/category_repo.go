package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sohubtech/homestore/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) ListCategories(ctx context.Context) ([]domain.ProductCategory, error) {
	var out []domain.ProductCategory
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("position asc, name asc").Find(&out).Error
	return out, err
}

func (r *CategoryRepo) SaveCategory(ctx context.Context, c *domain.ProductCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&domain.ProductSubcategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.ProductCategory{}, "id = ?", id).Error
	})
}

func (r *CategoryRepo) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]domain.ProductSubcategory, error) {
	var out []domain.ProductSubcategory
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	err := q.Order("position asc, name asc").Find(&out).Error
	return out, err
}

func (r *CategoryRepo) SaveSubcategory(ctx context.Context, sc *domain.ProductSubcategory) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(sc).Error
}

func (r *CategoryRepo) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProductSubcategory{}, "id = ?", id).Error
}
