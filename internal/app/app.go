package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/sohubtech/homestore/internal/adapters/cache/rediscache"
	"github.com/sohubtech/homestore/internal/adapters/httpserver"
	"github.com/sohubtech/homestore/internal/adapters/notify"
	"github.com/sohubtech/homestore/internal/adapters/repo/postgres"
	"github.com/sohubtech/homestore/internal/adapters/scraper"
	"github.com/sohubtech/homestore/internal/adapters/storage/localfs"
	"github.com/sohubtech/homestore/internal/domain"
	"github.com/sohubtech/homestore/internal/usecase"
)

type App struct {
	DB         *gorm.DB
	CatalogUC  *usecase.CatalogUC
	ProductUC  *usecase.ProductUC
	CheckoutUC *usecase.CheckoutUC
	OrderUC    *usecase.OrderUC
	UserUC     *usecase.UserUC
	ReportUC   *usecase.ReportUC

	Customers   domain.CustomerRepo
	Storage     domain.FileStorage
	Sessions    *httpserver.SessionStore
	Images      httpserver.ImageFinder
	OAuthConfig *oauth2.Config

	uploadsDir string
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	catRepo := postgres.NewCategoryRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	custRepo := postgres.NewCustomerRepo(db)
	userRepo := postgres.NewUserRepo(db)
	quoteRepo := postgres.NewQuoteRepo(db)

	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "uploads"
	}
	_ = os.MkdirAll(storageDir, 0o755)
	storage := localfs.New(storageDir)

	var cache domain.CatalogCache = rediscache.Noop{}
	if c := rediscache.New(os.Getenv("REDIS_ADDR"), os.Getenv("REDIS_PASSWORD"), 0); c != nil {
		cache = c
	}

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	app := &App{
		DB:          db,
		Customers:   custRepo,
		Storage:     storage,
		Sessions:    httpserver.NewSessionStore(0),
		Images:      scraper.NewImageScraper(),
		OAuthConfig: oauthCfg,
		uploadsDir:  storage.Dir(),
	}
	app.CatalogUC = &usecase.CatalogUC{Products: prodRepo, Categories: catRepo, Cache: cache}
	app.ProductUC = &usecase.ProductUC{Products: prodRepo, Cache: cache}
	app.CheckoutUC = &usecase.CheckoutUC{Orders: orderRepo, Customers: custRepo, Quotes: quoteRepo, Notifier: notify.New()}
	app.OrderUC = &usecase.OrderUC{Orders: orderRepo}
	app.UserUC = &usecase.UserUC{Users: userRepo}
	app.ReportUC = &usecase.ReportUC{Orders: orderRepo, Customers: custRepo}

	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Deps{
		Catalog:    a.CatalogUC,
		Products:   a.ProductUC,
		Checkout:   a.CheckoutUC,
		Orders:     a.OrderUC,
		Users:      a.UserUC,
		Reports:    a.ReportUC,
		Customers:  a.Customers,
		Storage:    a.Storage,
		Sessions:   a.Sessions,
		Images:     a.Images,
		OAuth:      a.OAuthConfig,
		UploadsDir: a.uploadsDir,
	})
}

// Start launches background maintenance, currently the idle-cart sweeper.
func (a *App) Start(ctx context.Context) {
	a.Sessions.StartSweeper(ctx, time.Hour)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Product{}, &domain.Variant{}, &domain.Accessory{}, &domain.Image{},
		&domain.ProductCategory{}, &domain.ProductSubcategory{},
		&domain.Order{}, &domain.OrderItem{},
		&domain.Customer{}, &domain.AdminUser{}, &domain.Quote{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_variants_product_id ON variants(product_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_accessories_product_id ON accessories(product_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_images_product_id ON images(product_id)").Error
	_ = a.DB.Exec("UPDATE products SET active = true WHERE active IS NULL").Error

	if err := backfillSlugs(a.DB); err != nil {
		return err
	}
	seedCatalog(a.DB)
	a.seedAdmin()
	return nil
}

func backfillSlugs(db *gorm.DB) error {
	var products []domain.Product
	if err := db.Where("slug IS NULL OR slug = ''").Find(&products).Error; err != nil {
		return err
	}
	for _, p := range products {
		base := usecase.Slugify(p.Name)
		if base == "" {
			base = p.ID.String()[:8]
		}
		slug := base
		var count int64
		for i := 2; ; i++ {
			if err := db.Model(&domain.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				break
			}
			slug = fmt.Sprintf("%s-%d", base, i)
		}
		if err := db.Model(&domain.Product{}).Where("id = ?", p.ID).Update("slug", slug).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedCatalog loads a starter catalog on an empty database so the storefront
// is browsable out of the box.
func seedCatalog(db *gorm.DB) {
	var count int64
	if db.Model(&domain.Product{}).Count(&count); count > 0 {
		return
	}

	sw := domain.Product{
		ID: uuid.New(), Slug: "smart-touch-switch", Name: "Smart Touch Switch",
		Category: "Smart Switch", BasePrice: 4500, Stock: 40, SerialOrder: 1,
		ShortDesc: "Glass panel touch switch with app and voice control",
		Brand:     "SOHUB", EngravingAvailable: true, EngravingPrice: 200, Active: true,
	}
	db.Create(&sw)
	for _, v := range []domain.Variant{
		{Name: "1 Gang", Price: 4500, Color: "Black", SKU: "SW-1G", Stock: 15},
		{Name: "2 Gang", Price: 6750, Color: "Black", SKU: "SW-2G", Stock: 15},
		{Name: "3 Gang", Price: 8900, Color: "Black", SKU: "SW-3G", Stock: 10},
		{Name: "Fan Switch", Price: 7200, Color: "White", SKU: "SW-FAN", Stock: 8},
	} {
		v.ID = uuid.New()
		v.ProductID = sw.ID
		db.Create(&v)
	}

	curtain := domain.Product{
		ID: uuid.New(), Slug: "slider-smart-curtain", Name: "Slider Smart Curtain",
		Category: "Smart Curtain", BasePrice: 26500, Stock: 12, SerialOrder: 2,
		ShortDesc:         "Motorized track sized per window, priced by tier",
		Brand:             "SOHUB",
		TrackRateStandard: 26500, TrackRateLarge: 39800, TrackRateXL: 0,
		Active: true,
	}
	db.Create(&curtain)

	panel := domain.Product{
		ID: uuid.New(), Slug: "security-panel-s1", Name: "Security Panel S1",
		Category: "Security", BasePrice: 12500, Stock: 20, SerialOrder: 3,
		ShortDesc: "Hub panel for door, motion and gas sensors",
		Brand:     "SOHUB", Active: true,
	}
	db.Create(&panel)
	for _, acc := range []domain.Accessory{
		{Name: "Door Sensor", Price: 1800},
		{Name: "Motion Sensor", Price: 2200},
		{Name: "Gas Detector", Price: 3500},
		{Name: "Siren", Price: 2800},
	} {
		acc.ID = uuid.New()
		acc.ProductID = panel.ID
		db.Create(&acc)
	}

	film := domain.Product{
		ID: uuid.New(), Slug: "pdlc-smart-film", Name: "PDLC Smart Film",
		Category: "PDLC Film", BasePrice: 1450, Stock: 500, SerialOrder: 4,
		ShortDesc: "Switchable privacy film, priced per square foot",
		Brand:     "SOHUB", Active: true,
	}
	db.Create(&film)

	spot := domain.Product{
		ID: uuid.New(), Slug: "smart-spot-light", Name: "Smart Spot Light",
		Category: "Lighting", BasePrice: 1900, Stock: 60, SerialOrder: 5,
		ShortDesc: "Dimmable ceiling spot, Zigbee or Wifi",
		Brand:     "SOHUB", Active: true,
	}
	db.Create(&spot)
	for _, v := range []domain.Variant{
		{Name: "7W Warm", Price: 1900, WifiUpcharge: 600},
		{Name: "12W Cool", Price: 2400, WifiUpcharge: 600},
	} {
		v.ID = uuid.New()
		v.ProductID = spot.ID
		db.Create(&v)
	}

	svc := domain.Product{
		ID: uuid.New(), Slug: "home-automation-consultancy", Name: "Home Automation Consultancy",
		Category: "Services", BasePrice: 0, Stock: 999, SerialOrder: 6,
		ShortDesc: "Free consultation visit for full-home setups",
		Active:    true,
	}
	db.Create(&svc)
}

// seedAdmin provisions the first back-office account from the environment.
func (a *App) seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	ctx := context.Background()
	if _, err := a.UserUC.Users.FindByEmail(ctx, strings.ToLower(email)); err == nil {
		return
	}
	if _, err := a.UserUC.Create(ctx, email, "Administrator", password, "admin"); err != nil {
		log.Warn().Err(err).Msg("admin seed failed")
	}
}
