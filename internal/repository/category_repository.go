package repository

import (
	"context"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// CategoryRepository reads classification reference data.
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetSubCategory(ctx context.Context, id string) (*domain.SubCategory, error)
}

type categoryRepository struct {
	db DBTX
}

// NewCategoryRepository builds repository.
func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `
        SELECT id, name, critical, is_active, created_at
        FROM categories WHERE id=$1`
	var category domain.Category
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Critical,
		&category.IsActive,
		&category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetSubCategory(ctx context.Context, id string) (*domain.SubCategory, error) {
	const query = `
        SELECT id, category_id, name, is_active, created_at
        FROM sub_categories WHERE id=$1`
	var sub domain.SubCategory
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.CategoryID,
		&sub.Name,
		&sub.IsActive,
		&sub.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
