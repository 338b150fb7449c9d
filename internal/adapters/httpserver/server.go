package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/sohubtech/homestore/internal/cart"
	"github.com/sohubtech/homestore/internal/domain"
	"github.com/sohubtech/homestore/internal/usecase"
)

// ImageFinder suggests stock photos for a catalog entry, used by the admin
// product editor.
type ImageFinder interface {
	SearchImages(ctx context.Context, productName, brand, model string, maxResults int) ([]string, error)
}

type Server struct {
	mux       *http.ServeMux
	catalog   *usecase.CatalogUC
	products  *usecase.ProductUC
	checkout  *usecase.CheckoutUC
	orders    *usecase.OrderUC
	users     *usecase.UserUC
	reports   *usecase.ReportUC
	customers domain.CustomerRepo
	storage   domain.FileStorage
	sessions  *SessionStore
	images    ImageFinder
	oauthCfg  *oauth2.Config

	adminSecret []byte
	uploadsDir  string
}

type Deps struct {
	Catalog   *usecase.CatalogUC
	Products  *usecase.ProductUC
	Checkout  *usecase.CheckoutUC
	Orders    *usecase.OrderUC
	Users     *usecase.UserUC
	Reports   *usecase.ReportUC
	Customers domain.CustomerRepo
	Storage   domain.FileStorage
	Sessions  *SessionStore
	Images    ImageFinder
	OAuth     *oauth2.Config

	UploadsDir string
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func New(d Deps) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		catalog:   d.Catalog,
		products:  d.Products,
		checkout:  d.Checkout,
		orders:    d.Orders,
		users:     d.Users,
		reports:   d.Reports,
		customers: d.Customers,
		storage:   d.Storage,
		sessions:  d.Sessions,
		images:    d.Images,
		oauthCfg:  d.OAuth,

		uploadsDir: d.UploadsDir,
	}
	if s.sessions == nil {
		s.sessions = NewSessionStore(0)
	}
	if s.uploadsDir == "" {
		s.uploadsDir = "uploads"
	}
	sec := os.Getenv("JWT_ADMIN_SECRET")
	if sec == "" {
		sec = os.Getenv("SECRET_KEY")
	}
	if sec == "" {
		sec = "dev-admin-secret"
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return Chain(s.mux,
		PublicRateLimit(map[string]int{
			"/api/checkout":     10,
			"/api/quote":        15,
			"/api/orders/track": 30,
		}),
		RateLimit(120),
		SecurityHeaders,
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("/api/catalog/categories", s.apiCategories)
	s.mux.HandleFunc("/api/catalog/subcategories", s.apiSubcategories)
	s.mux.HandleFunc("/api/catalog/", s.apiCatalogByCategory)
	s.mux.HandleFunc("/api/products/", s.apiProductBySlug)

	s.mux.HandleFunc("/api/me", s.apiMe)
	s.mux.HandleFunc("/api/cart", s.apiCart)
	s.mux.HandleFunc("/api/cart/items", s.apiCartAdd)
	s.mux.HandleFunc("/api/cart/items/", s.apiCartItem)
	s.mux.HandleFunc("/api/checkout", s.apiCheckout)
	s.mux.HandleFunc("/api/quote", s.apiQuote)
	s.mux.HandleFunc("/api/orders/track", s.apiTrackOrder)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("/logout", s.handleLogout)

	s.adminRoutes()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP statuses with a JSON body the
// SPA can show directly.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrQuantityCapped):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func methodIs(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	cats, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"categories": cats})
}

func (s *Server) apiSubcategories(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	var catID *uuid.UUID
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad category_id"})
			return
		}
		catID = &id
	}
	subs, err := s.catalog.ListSubcategories(r.Context(), catID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"subcategories": subs})
}

// apiCatalogByCategory serves GET /api/catalog/{category}/products.
func (s *Server) apiCatalogByCategory(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/catalog/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "products" {
		http.NotFound(w, r)
		return
	}
	c, ok := domain.ParseCategory(parts[0])
	if !ok {
		writeJSON(w, 400, map[string]string{"error": "unknown category"})
		return
	}
	entries, err := s.catalog.EntriesByCategory(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"category": c, "label": c.Label(), "products": entries})
}

// apiProductBySlug serves GET /api/products/{slug} for the configurator.
func (s *Server) apiProductBySlug(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}
	entry, err := s.catalog.EntryBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, entry)
}

type cartLineView struct {
	ID                 string                   `json:"id"`
	CatalogID          string                   `json:"catalog_id"`
	Name               string                   `json:"name"`
	Category           string                   `json:"category"`
	Quantity           int                      `json:"quantity"`
	Price              float64                  `json:"price"`
	Flat               bool                     `json:"flat"`
	InstallationCharge float64                  `json:"installation_charge,omitempty"`
	TrackSize          float64                  `json:"track_size,omitempty"`
	Model              string                   `json:"model,omitempty"`
	ConnectionType     string                   `json:"connection_type,omitempty"`
	EngravingText      string                   `json:"engraving_text,omitempty"`
	Image              string                   `json:"image,omitempty"`
	Accessories        []cart.SelectedAccessory `json:"accessories,omitempty"`
	Notes              []string                 `json:"notes,omitempty"`
	Total              float64                  `json:"total"`
}

type cartView struct {
	Lines      []cartLineView `json:"lines"`
	TotalItems int            `json:"total_items"`
	TotalPrice float64        `json:"total_price"`
}

func viewOf(c *cart.Cart) cartView {
	v := cartView{Lines: []cartLineView{}}
	for _, l := range c.Lines() {
		v.Lines = append(v.Lines, cartLineView{
			ID:                 l.ID,
			CatalogID:          l.CatalogID,
			Name:               l.Name,
			Category:           l.Category.Label(),
			Quantity:           l.Quantity,
			Price:              l.Price,
			Flat:               l.Flat,
			InstallationCharge: l.InstallationCharge,
			TrackSize:          l.TrackSize,
			Model:              l.Model,
			ConnectionType:     l.ConnectionType,
			EngravingText:      l.EngravingText,
			Image:              l.Image,
			Accessories:        l.Accessories,
			Notes:              l.Notes,
			Total:              l.Total(),
		})
	}
	t := c.Totals()
	v.TotalItems = t.TotalItems
	v.TotalPrice = t.TotalPrice
	return v
}

// apiMe reports the signed-in customer, used by the SPA to prefill checkout.
func (s *Server) apiMe(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	u := readUserSession(r)
	if u == nil {
		writeJSON(w, 200, map[string]any{"signed_in": false})
		return
	}
	writeJSON(w, 200, map[string]any{"signed_in": true, "email": u.Email, "name": u.Name})
}

func (s *Server) apiCart(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	var view cartView
	_ = s.sessions.With(sessionID(w, r), func(c *cart.Cart) error {
		view = viewOf(c)
		return nil
	})
	writeJSON(w, 200, view)
}

type addItemRequest struct {
	ProductID      string         `json:"product_id"`
	Slug           string         `json:"slug"`
	Variant        string         `json:"variant"`
	ConnectionType string         `json:"connection_type"`
	TrackTier      string         `json:"track_tier"`
	TrackSize      float64        `json:"track_size"`
	Height         float64        `json:"height"`
	Width          float64        `json:"width"`
	Color          string         `json:"color"`
	AccessoryIDs   []string       `json:"accessory_ids"`
	AccessoryQty   map[string]int `json:"accessory_qty"`
	EngravingText  string         `json:"engraving_text"`
	Installation   bool           `json:"installation"`
	Quantity       int            `json:"quantity"`
}

func (s *Server) apiCartAdd(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodPost) {
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}

	var entry cart.CatalogEntry
	var err error
	switch {
	case req.ProductID != "":
		id, perr := uuid.Parse(req.ProductID)
		if perr != nil {
			writeJSON(w, 400, map[string]string{"error": "bad product_id"})
			return
		}
		entry, err = s.catalog.EntryByID(r.Context(), id)
	case req.Slug != "":
		entry, err = s.catalog.EntryBySlug(r.Context(), req.Slug)
	default:
		writeJSON(w, 400, map[string]string{"error": "product_id or slug required"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	sel := cart.VariantSelection{
		Variant:        req.Variant,
		ConnectionType: req.ConnectionType,
		TrackTier:      cart.TrackTier(req.TrackTier),
		TrackSize:      req.TrackSize,
		Height:         req.Height,
		Width:          req.Width,
		Color:          req.Color,
		AccessoryIDs:   req.AccessoryIDs,
		AccessoryQty:   req.AccessoryQty,
		EngravingText:  req.EngravingText,
		Installation:   req.Installation,
		Quantity:       req.Quantity,
	}
	ps, err := cart.Resolve(entry, sel)
	if err != nil {
		writeError(w, err)
		return
	}

	var view cartView
	_ = s.sessions.With(sessionID(w, r), func(c *cart.Cart) error {
		c.Add(ps)
		view = viewOf(c)
		return nil
	})
	writeJSON(w, 200, view)
}

// apiCartItem handles POST /api/cart/items/{id}/quantity and
// DELETE /api/cart/items/{id}.
func (s *Server) apiCartItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/cart/items/"), "/")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(rest, "/quantity"):
		lineID := strings.TrimSuffix(rest, "/quantity")
		var req struct {
			Delta int `json:"delta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == 0 {
			writeJSON(w, 400, map[string]string{"error": "delta required"})
			return
		}
		var view cartView
		err := s.sessions.With(sessionID(w, r), func(c *cart.Cart) error {
			if err := c.UpdateQuantity(lineID, req.Delta); err != nil {
				return err
			}
			view = viewOf(c)
			return nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, view)
	case r.Method == http.MethodDelete:
		var view cartView
		_ = s.sessions.With(sessionID(w, r), func(c *cart.Cart) error {
			c.Remove(rest)
			view = viewOf(c)
			return nil
		})
		writeJSON(w, 200, view)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiCheckout(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Phone         string `json:"phone"`
		Address       string `json:"address"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}
	if req.Email != "" && !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		writeJSON(w, 400, map[string]string{"error": "invalid email"})
		return
	}

	var conf *usecase.Confirmation
	err := s.sessions.With(sessionID(w, r), func(c *cart.Cart) error {
		var uerr error
		conf, uerr = s.checkout.Submit(r.Context(), c, usecase.CheckoutRequest{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			PaymentMethod: req.PaymentMethod,
		})
		return uerr
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, conf)
}

func (s *Server) apiQuote(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}
	if !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		writeJSON(w, 400, map[string]string{"error": "invalid email"})
		return
	}
	var q *domain.Quote
	err := s.sessions.With(sessionID(w, r), func(c *cart.Cart) error {
		var uerr error
		q, uerr = s.checkout.SaveQuote(r.Context(), c, req.Email)
		return uerr
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"quote_id": q.ID, "total": q.Total})
}

func (s *Server) apiTrackOrder(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	number := r.URL.Query().Get("number")
	phone := r.URL.Query().Get("phone")
	if number == "" || phone == "" {
		writeJSON(w, 400, map[string]string{"error": "number and phone required"})
		return
	}
	o, err := s.orders.Track(r.Context(), number, phone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"order_number": o.OrderNumber,
		"status":       o.Status,
		"total":        o.TotalAmount,
		"placed_at":    o.CreatedAt,
		"items":        o.Items,
	})
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || !secureCompare(c.Value, q.Get("state")) {
		http.Error(w, "state mismatch", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != 200 {
		log.Error().Err(err).Msg("oauth userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&info)
	if info.Email == "" {
		http.Error(w, "email missing", 400)
		return
	}
	if s.customers != nil {
		if _, err := s.customers.FindByEmail(r.Context(), info.Email); errors.Is(err, domain.ErrNotFound) {
			_ = s.customers.Save(r.Context(), &domain.Customer{ID: uuid.New(), Email: strings.ToLower(info.Email), Name: info.Name})
		}
	}
	writeUserSession(w, &sessionUser{Email: strings.ToLower(info.Email), Name: info.Name})
	// Staff accounts signed in through Google also get a back-office token.
	if s.users != nil {
		if u, err := s.users.AuthenticateGoogle(r.Context(), info.Email); err == nil {
			tok, exp := s.issueAdminToken(u.Email, u.Role, 6*time.Hour)
			http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: tok, Path: "/", Expires: exp, HttpOnly: true, SameSite: http.SameSiteStrictMode})
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cartCookie); err == nil {
		if payload := verify(c.Value); payload != nil {
			s.sessions.Drop(string(payload))
		}
	}
	writeUserSession(w, nil)
	http.Redirect(w, r, "/", http.StatusFound)
}
