package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sohubtech/homestore/internal/domain"
	"github.com/sohubtech/homestore/internal/usecase"
)

func (s *Server) adminRoutes() {
	s.mux.HandleFunc("/admin/auth", s.handleAdminAuth)
	s.mux.HandleFunc("/admin/logout", s.handleAdminLogout)

	s.mux.HandleFunc("/admin/api/products", s.adminProducts)
	s.mux.HandleFunc("/admin/api/products/import", s.adminImportProducts)
	s.mux.HandleFunc("/admin/api/products/export", s.adminExportProducts)
	s.mux.HandleFunc("/admin/api/products/", s.adminProductByID)

	s.mux.HandleFunc("/admin/api/categories", s.adminCategories)
	s.mux.HandleFunc("/admin/api/categories/", s.adminCategoryByID)
	s.mux.HandleFunc("/admin/api/subcategories", s.adminSubcategories)
	s.mux.HandleFunc("/admin/api/subcategories/", s.adminSubcategoryByID)

	s.mux.HandleFunc("/admin/api/orders", s.adminOrders)
	s.mux.HandleFunc("/admin/api/orders/", s.adminOrderByID)

	s.mux.HandleFunc("/admin/api/customers", s.adminCustomers)
	s.mux.HandleFunc("/admin/api/quotes", s.adminQuotes)
	s.mux.HandleFunc("/admin/api/users", s.adminUsers)
	s.mux.HandleFunc("/admin/api/users/", s.adminUserByID)

	s.mux.HandleFunc("/admin/api/reports/sales", s.adminSalesReport)
	s.mux.HandleFunc("/admin/api/reports/sales.xlsx", s.adminSalesReportXLSX)
}

func (s *Server) issueAdminToken(email, role string, dur time.Duration) (string, time.Time) {
	head := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	exp := time.Now().Add(dur)
	claims := map[string]any{"sub": email, "email": email, "role": role, "exp": exp.Unix(), "iat": time.Now().Unix(), "iss": "homestore"}
	b, _ := json.Marshal(claims)
	unsigned := head + "." + base64.RawURLEncoding.EncodeToString(b)
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	return unsigned + "." + base64.RawURLEncoding.EncodeToString(h.Sum(nil)), exp
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("token format")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("token sig")
	}
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", fmt.Errorf("token signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("token payload")
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return "", fmt.Errorf("token json")
	}
	email, _ := m["email"].(string)
	expF, _ := m["exp"].(float64)
	if email == "" {
		return "", fmt.Errorf("token claims")
	}
	if time.Now().Unix() > int64(expF) {
		return "", fmt.Errorf("token expired")
	}
	return email, nil
}

func (s *Server) readAdminToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	if c, err := r.Cookie("admin_token"); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if tok := s.readAdminToken(r); tok != "" {
		if _, err := s.verifyAdminToken(tok); err == nil {
			return true
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	return false
}

func (s *Server) handleAdminAuth(w http.ResponseWriter, r *http.Request) {
	if !methodIs(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}
	u, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrBadCredentials) {
			writeJSON(w, 401, map[string]string{"error": "invalid email or password"})
			return
		}
		writeError(w, err)
		return
	}
	tok, exp := s.issueAdminToken(u.Email, u.Role, 6*time.Hour)
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: tok, Path: "/", Expires: exp, HttpOnly: true, SameSite: http.SameSiteStrictMode})
	writeJSON(w, 200, map[string]any{"token": tok, "exp": exp.Unix(), "email": u.Email, "role": u.Role})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

type productPayload struct {
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	BasePrice     float64           `json:"base_price"`
	DiscountPrice float64           `json:"discount_price"`
	Stock         int               `json:"stock"`
	SerialOrder   int               `json:"serial_order"`
	ShortDesc     string            `json:"short_desc"`
	DetailedDesc  string            `json:"detailed_desc"`
	Features      string            `json:"features"`
	Specs         map[string]string `json:"specifications"`
	Warranty      string            `json:"warranty"`
	Brand         string            `json:"brand"`
	Model         string            `json:"model"`

	EngravingAvailable bool    `json:"engraving_available"`
	EngravingPrice     float64 `json:"engraving_price"`

	TrackRateStandard float64 `json:"track_rate_standard"`
	TrackRateLarge    float64 `json:"track_rate_large"`
	TrackRateXL       float64 `json:"track_rate_xl"`

	InstallationAvailable bool `json:"installation_available"`
	Active                bool `json:"active"`
}

func (p productPayload) apply(dst *domain.Product) {
	dst.Slug = p.Slug
	dst.Name = p.Name
	dst.Category = p.Category
	dst.BasePrice = p.BasePrice
	dst.DiscountPrice = p.DiscountPrice
	dst.Stock = p.Stock
	dst.SerialOrder = p.SerialOrder
	dst.ShortDesc = p.ShortDesc
	dst.DetailedDesc = p.DetailedDesc
	dst.Features = p.Features
	dst.Specifications = p.Specs
	dst.Warranty = p.Warranty
	dst.Brand = p.Brand
	dst.Model = p.Model
	dst.EngravingAvailable = p.EngravingAvailable
	dst.EngravingPrice = p.EngravingPrice
	dst.TrackRateStandard = p.TrackRateStandard
	dst.TrackRateLarge = p.TrackRateLarge
	dst.TrackRateXL = p.TrackRateXL
	dst.InstallationAvailable = p.InstallationAvailable
	dst.Active = p.Active
}

func (s *Server) adminProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		page, pageSize := intParam(q.Get("page"), 1), intParam(q.Get("page_size"), 20)
		list, total, err := s.products.List(r.Context(), domain.ProductFilter{
			Category: q.Get("category"),
			Query:    q.Get("q"),
			Sort:     q.Get("sort"),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"products": list, "total": total, "page": page})
	case http.MethodPost:
		var payload productPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad json"})
			return
		}
		p := &domain.Product{}
		payload.apply(p)
		if err := s.products.Save(r.Context(), p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, p)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// adminProductByID routes /admin/api/products/{id} and its nested variant,
// accessory and image resources.
func (s *Server) adminProductByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/api/products/"), "/")
	parts := strings.Split(rest, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad product id"})
		return
	}

	if len(parts) == 1 {
		s.adminProduct(w, r, id)
		return
	}
	switch parts[1] {
	case "variants":
		s.adminProductVariants(w, r, id, parts[2:])
	case "accessories":
		s.adminProductAccessories(w, r, id, parts[2:])
	case "images":
		s.adminProductImages(w, r, id, parts[2:])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) adminProduct(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	switch r.Method {
	case http.MethodGet:
		p, err := s.products.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, p)
	case http.MethodPut:
		p, err := s.products.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		var payload productPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad json"})
			return
		}
		payload.apply(p)
		if err := s.products.Save(r.Context(), p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, p)
	case http.MethodDelete:
		urls, err := s.products.ClearImages(r.Context(), id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			writeError(w, err)
			return
		}
		if err := s.products.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		for _, u := range urls {
			if err := s.storage.Remove(r.Context(), u); err != nil {
				log.Warn().Err(err).Str("url", u).Msg("stored image not removed")
			}
		}
		writeJSON(w, 200, map[string]string{"status": "deleted"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminProductVariants(w http.ResponseWriter, r *http.Request, productID uuid.UUID, rest []string) {
	switch {
	case r.Method == http.MethodGet && len(rest) == 0:
		vs, err := s.products.ListVariants(r.Context(), productID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"variants": vs})
	case r.Method == http.MethodPost && len(rest) == 0:
		var v domain.Variant
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad json"})
			return
		}
		v.ProductID = productID
		if err := s.products.SaveVariant(r.Context(), &v); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, v)
	case r.Method == http.MethodDelete && len(rest) == 1:
		vid, err := uuid.Parse(rest[0])
		if err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad variant id"})
			return
		}
		if err := s.products.DeleteVariant(r.Context(), vid); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]string{"status": "deleted"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminProductAccessories(w http.ResponseWriter, r *http.Request, productID uuid.UUID, rest []string) {
	switch {
	case r.Method == http.MethodGet && len(rest) == 0:
		as, err := s.products.ListAccessories(r.Context(), productID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"accessories": as})
	case r.Method == http.MethodPost && len(rest) == 0:
		var a domain.Accessory
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad json"})
			return
		}
		a.ProductID = productID
		if err := s.products.SaveAccessory(r.Context(), &a); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, a)
	case r.Method == http.MethodDelete && len(rest) == 1:
		aid, err := uuid.Parse(rest[0])
		if err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad accessory id"})
			return
		}
		if err := s.products.DeleteAccessory(r.Context(), aid); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]string{"status": "deleted"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminProductImages(w http.ResponseWriter, r *http.Request, productID uuid.UUID, rest []string) {
	switch {
	case r.Method == http.MethodPost && len(rest) == 0:
		s.uploadProductImages(w, r, productID)
	case r.Method == http.MethodPost && len(rest) == 1 && rest[0] == "clear":
		urls, err := s.products.ClearImages(r.Context(), productID)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, u := range urls {
			if err := s.storage.Remove(r.Context(), u); err != nil {
				log.Warn().Err(err).Str("url", u).Msg("stored image not removed")
			}
		}
		writeJSON(w, 200, map[string]any{"removed": len(urls)})
	case r.Method == http.MethodGet && len(rest) == 1 && rest[0] == "suggest":
		s.suggestProductImages(w, r, productID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) uploadProductImages(w http.ResponseWriter, r *http.Request, productID uuid.UUID) {
	if err := r.ParseMultipartForm(25 << 20); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad multipart form"})
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["images"]) == 0 {
		writeJSON(w, 400, map[string]string{"error": "images field required"})
		return
	}
	var imgs []domain.Image
	for i, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, 400, map[string]string{"error": "unreadable upload"})
			return
		}
		url, err := s.storage.Save(r.Context(), fh.Filename, f)
		f.Close()
		if err != nil {
			writeError(w, err)
			return
		}
		imgs = append(imgs, domain.Image{URL: url, Position: i})
	}
	if err := s.products.AddImages(r.Context(), productID, imgs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 201, map[string]any{"images": imgs})
}

func (s *Server) suggestProductImages(w http.ResponseWriter, r *http.Request, productID uuid.UUID) {
	if s.images == nil {
		writeJSON(w, 503, map[string]string{"error": "image search not configured"})
		return
	}
	p, err := s.products.GetByID(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	urls, err := s.images.SearchImages(r.Context(), p.Name, p.Brand, p.Model, 8)
	if err != nil {
		writeJSON(w, 502, map[string]string{"error": "image search failed"})
		return
	}
	writeJSON(w, 200, map[string]any{"suggestions": urls})
}

func (s *Server) adminCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		cats, err := s.catalog.ListCategories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"categories": cats})
	case http.MethodPost:
		var c domain.ProductCategory
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil || strings.TrimSpace(c.Name) == "" {
			writeJSON(w, 400, map[string]string{"error": "name required"})
			return
		}
		if err := s.catalog.SaveCategory(r.Context(), &c); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, c)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminCategoryByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodDelete) {
		return
	}
	id, err := uuid.Parse(strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/api/categories/"), "/"))
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad id"})
		return
	}
	if err := s.catalog.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]string{"status": "deleted"})
}

func (s *Server) adminSubcategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
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
	case http.MethodPost:
		var sc domain.ProductSubcategory
		if err := json.NewDecoder(r.Body).Decode(&sc); err != nil || strings.TrimSpace(sc.Name) == "" || sc.CategoryID == uuid.Nil {
			writeJSON(w, 400, map[string]string{"error": "name and category_id required"})
			return
		}
		if err := s.catalog.SaveSubcategory(r.Context(), &sc); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 201, sc)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminSubcategoryByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodDelete) {
		return
	}
	id, err := uuid.Parse(strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/api/subcategories/"), "/"))
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad id"})
		return
	}
	if err := s.catalog.DeleteSubcategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]string{"status": "deleted"})
}

func (s *Server) adminOrders(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	if search := q.Get("q"); search != "" {
		orders, err := s.orders.Search(r.Context(), search)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"orders": orders})
		return
	}
	list, total, err := s.orders.List(r.Context(), domain.OrderFilter{
		Status:   domain.OrderStatus(q.Get("status")),
		Email:    q.Get("email"),
		Page:     intParam(q.Get("page"), 1),
		PageSize: intParam(q.Get("page_size"), 50),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"orders": list, "total": total})
}

// adminOrderByID routes GET/DELETE /admin/api/orders/{id} and
// POST /admin/api/orders/{id}/status.
func (s *Server) adminOrderByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/api/orders/"), "/")
	parts := strings.Split(rest, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad order id"})
		return
	}
	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		o, err := s.orders.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, o)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		if err := s.orders.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, map[string]string{"status": "deleted"})
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPost:
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad json"})
			return
		}
		o, err := s.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, 200, o)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminCustomers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	list, total, err := s.customers.List(r.Context(), intParam(q.Get("page"), 1), intParam(q.Get("page_size"), 50))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"customers": list, "total": total})
}

func (s *Server) adminQuotes(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	qs, err := s.checkout.QuotesByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"quotes": qs})
}

func (s *Server) adminUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		us, err := s.users.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		for i := range us {
			us[i].PasswordHash = ""
		}
		writeJSON(w, 200, map[string]any{"users": us})
	case http.MethodPost:
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, 400, map[string]string{"error": "bad json"})
			return
		}
		u, err := s.users.Create(r.Context(), req.Email, req.Name, req.Password, req.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		u.PasswordHash = ""
		writeJSON(w, 201, u)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminUserByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodDelete) {
		return
	}
	id, err := uuid.Parse(strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/api/users/"), "/"))
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad id"})
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, map[string]string{"status": "deleted"})
}

func reportRange(r *http.Request) (time.Time, time.Time) {
	q := r.URL.Query()
	to := time.Now()
	from := to.AddDate(0, -1, 0)
	if raw := q.Get("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := q.Get("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return from, to
}

func (s *Server) adminSalesReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	from, to := reportRange(r)
	sum, err := s.reports.Summary(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, 200, sum)
}

func (s *Server) adminSalesReportXLSX(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	from, to := reportRange(r)
	f, err := s.reports.ExportXLSX(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sales-%s.xlsx"`, time.Now().Format("20060102")))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("xlsx write")
	}
}

func intParam(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
