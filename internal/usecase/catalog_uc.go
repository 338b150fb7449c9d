package usecase

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/cart"
	"github.com/sohubtech/homestore/internal/domain"
)

const (
	cacheTagCategories = "categories"
	cacheTagProducts   = "products"
)

// CatalogUC shapes stored product rows into the resolver's catalog entries.
// Reads go through the catalog cache when one is configured.
type CatalogUC struct {
	Products   domain.ProductRepo
	Categories domain.CategoryRepo
	Cache      domain.CatalogCache
}

func (uc *CatalogUC) ListCategories(ctx context.Context) ([]domain.ProductCategory, error) {
	var cached []domain.ProductCategory
	if uc.Cache != nil && uc.Cache.Get(ctx, "catalog:categories", &cached) {
		return cached, nil
	}
	cats, err := uc.Categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if uc.Cache != nil {
		uc.Cache.Set(ctx, "catalog:categories", cats, cacheTagCategories)
	}
	return cats, nil
}

func (uc *CatalogUC) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]domain.ProductSubcategory, error) {
	return uc.Categories.ListSubcategories(ctx, categoryID)
}

func (uc *CatalogUC) SaveCategory(ctx context.Context, c *domain.ProductCategory) error {
	if err := uc.Categories.SaveCategory(ctx, c); err != nil {
		return err
	}
	uc.invalidateCategories(ctx)
	return nil
}

func (uc *CatalogUC) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := uc.Categories.DeleteCategory(ctx, id); err != nil {
		return err
	}
	uc.invalidateCategories(ctx)
	return nil
}

func (uc *CatalogUC) SaveSubcategory(ctx context.Context, sc *domain.ProductSubcategory) error {
	if err := uc.Categories.SaveSubcategory(ctx, sc); err != nil {
		return err
	}
	uc.invalidateCategories(ctx)
	return nil
}

func (uc *CatalogUC) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	if err := uc.Categories.DeleteSubcategory(ctx, id); err != nil {
		return err
	}
	uc.invalidateCategories(ctx)
	return nil
}

func (uc *CatalogUC) invalidateCategories(ctx context.Context) {
	if uc.Cache != nil {
		uc.Cache.InvalidateTags(ctx, cacheTagCategories)
	}
}

// EntriesByCategory lists the in-stock, active entries of one product family
// in serial order, the way the storefront's category rail shows them.
func (uc *CatalogUC) EntriesByCategory(ctx context.Context, category domain.Category) ([]cart.CatalogEntry, error) {
	key := "catalog:entries:" + string(category)
	var cached []cart.CatalogEntry
	if uc.Cache != nil && uc.Cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	active := true
	rows, _, err := uc.Products.List(ctx, domain.ProductFilter{
		Category: string(category),
		Active:   &active,
		InStock:  true,
		PageSize: 200,
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SerialOrder < rows[j].SerialOrder })

	entries := make([]cart.CatalogEntry, 0, len(rows))
	for _, p := range rows {
		if e, ok := ShapeEntry(p); ok {
			entries = append(entries, e)
		}
	}
	if uc.Cache != nil {
		uc.Cache.Set(ctx, key, entries, cacheTagProducts)
	}
	return entries, nil
}

func (uc *CatalogUC) EntryBySlug(ctx context.Context, slug string) (cart.CatalogEntry, error) {
	p, err := uc.Products.FindBySlug(ctx, slug)
	if err != nil {
		return cart.CatalogEntry{}, err
	}
	e, ok := ShapeEntry(*p)
	if !ok {
		return cart.CatalogEntry{}, domain.ErrNotFound
	}
	return e, nil
}

func (uc *CatalogUC) EntryByID(ctx context.Context, id uuid.UUID) (cart.CatalogEntry, error) {
	p, err := uc.Products.FindByID(ctx, id)
	if err != nil {
		return cart.CatalogEntry{}, err
	}
	e, ok := ShapeEntry(*p)
	if !ok {
		return cart.CatalogEntry{}, domain.ErrNotFound
	}
	return e, nil
}

// ShapeEntry normalizes one stored row into a catalog entry. Rows whose
// free-text category does not map into the closed set are dropped from the
// storefront rather than guessed at.
func ShapeEntry(p domain.Product) (cart.CatalogEntry, bool) {
	cat, ok := domain.ParseCategory(p.Category)
	if !ok {
		return cart.CatalogEntry{}, false
	}

	e := cart.CatalogEntry{
		ID:                 p.ID.String(),
		Name:               p.Name,
		Category:           cat,
		BasePrice:          p.BasePrice,
		DiscountPrice:      p.DiscountPrice,
		Stock:              p.Stock,
		EngravingAvailable: p.EngravingAvailable,
		EngravingPrice:     p.EngravingPrice,
	}

	imgs := append([]domain.Image(nil), p.Images...)
	sort.SliceStable(imgs, func(i, j int) bool { return imgs[i].Position < imgs[j].Position })
	for _, im := range imgs {
		e.Images = append(e.Images, im.URL)
	}

	for _, v := range p.Variants {
		e.Variants = append(e.Variants, cart.VariantOption{
			Name:          v.Name,
			Price:         v.Price,
			DiscountPrice: v.DiscountPrice,
			WifiUpcharge:  v.WifiUpcharge,
			Color:         v.Color,
		})
	}
	for _, a := range p.Accessories {
		e.Accessories = append(e.Accessories, cart.AccessoryOption{
			ID:    a.ID.String(),
			Name:  a.Name,
			Price: a.Price,
		})
	}
	if cat == domain.CategoryCurtain {
		e.TrackRates = map[cart.TrackTier]float64{
			cart.TrackStandard:   p.TrackRateStandard,
			cart.TrackLarge:      p.TrackRateLarge,
			cart.TrackExtraLarge: p.TrackRateXL,
		}
	}
	return e, true
}
