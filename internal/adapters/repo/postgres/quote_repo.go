package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/sohubtech/homestore/internal/domain"
)

type QuoteRepo struct{ db *gorm.DB }

func NewQuoteRepo(db *gorm.DB) *QuoteRepo { return &QuoteRepo{db: db} }

func (r *QuoteRepo) Save(ctx context.Context, q *domain.Quote) error {
	q.Email = strings.ToLower(q.Email)
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *QuoteRepo) ListByEmail(ctx context.Context, email string) ([]domain.Quote, error) {
	var out []domain.Quote
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).Order("created_at desc").Find(&out).Error
	return out, err
}
