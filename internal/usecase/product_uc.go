package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/domain"
)

type ProductUC struct {
	Products domain.ProductRepo
	Cache    domain.CatalogCache
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == "" {
		return nil, errors.New("empty slug")
	}
	return uc.Products.FindBySlug(ctx, slug)
}

func (uc *ProductUC) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return uc.Products.FindByID(ctx, id)
}

func (uc *ProductUC) Save(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	if _, ok := domain.ParseCategory(p.Category); !ok {
		return domain.ErrInvalidSelection
	}
	if err := uc.Products.Save(ctx, p); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUC) Delete(ctx context.Context, id uuid.UUID) error {
	if err := uc.Products.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUC) AddImages(ctx context.Context, productID uuid.UUID, imgs []domain.Image) error {
	if err := uc.Products.AddImages(ctx, productID, imgs); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUC) ClearImages(ctx context.Context, productID uuid.UUID) ([]string, error) {
	paths, err := uc.Products.ClearImages(ctx, productID)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return paths, nil
}

func (uc *ProductUC) SaveVariant(ctx context.Context, v *domain.Variant) error {
	if v == nil || v.ProductID == uuid.Nil {
		return errors.New("variant needs a product")
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if err := uc.Products.SaveVariant(ctx, v); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUC) ListVariants(ctx context.Context, productID uuid.UUID) ([]domain.Variant, error) {
	return uc.Products.ListVariants(ctx, productID)
}

func (uc *ProductUC) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("variant id")
	}
	if err := uc.Products.DeleteVariant(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUC) SaveAccessory(ctx context.Context, a *domain.Accessory) error {
	if a == nil || a.ProductID == uuid.Nil {
		return errors.New("accessory needs a product")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := uc.Products.SaveAccessory(ctx, a); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUC) ListAccessories(ctx context.Context, productID uuid.UUID) ([]domain.Accessory, error) {
	return uc.Products.ListAccessories(ctx, productID)
}

func (uc *ProductUC) DeleteAccessory(ctx context.Context, id uuid.UUID) error {
	if err := uc.Products.DeleteAccessory(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *ProductUC) invalidate(ctx context.Context) {
	if uc.Cache != nil {
		uc.Cache.InvalidateTags(ctx, cacheTagProducts)
	}
}

// Slugify lowercases and dashes a product name for its URL.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
