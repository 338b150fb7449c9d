package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"github.com/xuri/excelize/v2"

	"github.com/sohubtech/homestore/internal/domain"
	"github.com/sohubtech/homestore/internal/usecase"
)

// ImportReport summarizes one bulk XLSX import for the admin screen.
type ImportReport struct {
	CreatedProducts int       `json:"created_products"`
	UpdatedProducts int       `json:"updated_products"`
	CreatedVariants int       `json:"created_variants"`
	SkippedRows     int       `json:"skipped_rows"`
	Errors          []string  `json:"errors,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

type importRow struct {
	Name          string
	Category      string
	Variant       string
	Color         string
	Price         float64
	DiscountPrice float64
	Stock         int
	Brand         string
	Model         string
}

// adminImportProducts ingests a catalog workbook. Expected columns:
// A name, B category, C variant, D color, E price, F discount, G stock,
// H brand, I model. Header rows and rows without a name or price are
// skipped. With use_openai=true, unmappable category labels are normalized
// through the OpenAI API before the rows are applied.
func (s *Server) adminImportProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseMultipartForm(25 << 20); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad multipart form"})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "file field required"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "unreadable upload"})
		return
	}

	rows, skipped := parseImportRows(data)
	if len(rows) == 0 {
		writeJSON(w, 400, map[string]string{"error": "no importable rows"})
		return
	}

	if strings.TrimSpace(r.FormValue("use_openai")) == "true" {
		if err := normalizeCategories(r.Context(), rows); err != nil {
			log.Warn().Err(err).Msg("openai normalization failed, importing raw labels")
		}
	}

	rep := &ImportReport{Timestamp: time.Now(), SkippedRows: skipped}
	s.applyImportRows(r.Context(), rows, rep)
	writeJSON(w, 200, rep)
}

func parseImportRows(data []byte) ([]*importRow, int) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0
	}
	defer f.Close()

	var out []*importRow
	skipped := 0
	for _, sh := range f.GetSheetList() {
		rows, err := f.GetRows(sh)
		if err != nil {
			continue
		}
		for _, row := range rows {
			cell := func(i int) string {
				if i < len(row) {
					return strings.TrimSpace(row[i])
				}
				return ""
			}
			name := cell(0)
			if name == "" || strings.EqualFold(name, "name") {
				continue
			}
			price, err := strconv.ParseFloat(strings.ReplaceAll(cell(4), ",", ""), 64)
			if err != nil || price <= 0 {
				skipped++
				continue
			}
			discount, _ := strconv.ParseFloat(strings.ReplaceAll(cell(5), ",", ""), 64)
			stock, _ := strconv.Atoi(cell(6))
			out = append(out, &importRow{
				Name:          name,
				Category:      cell(1),
				Variant:       cell(2),
				Color:         cell(3),
				Price:         price,
				DiscountPrice: discount,
				Stock:         stock,
				Brand:         cell(7),
				Model:         cell(8),
			})
		}
	}
	return out, skipped
}

func (s *Server) applyImportRows(ctx context.Context, rows []*importRow, rep *ImportReport) {
	for _, row := range rows {
		if _, ok := domain.ParseCategory(row.Category); !ok {
			rep.SkippedRows++
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s: unknown category %q", row.Name, row.Category))
			continue
		}
		slug := usecase.Slugify(row.Name)
		p, err := s.products.GetBySlug(ctx, slug)
		switch {
		case err == nil:
			p.Category = row.Category
			p.BasePrice = row.Price
			p.DiscountPrice = row.DiscountPrice
			p.Stock = row.Stock
			if row.Brand != "" {
				p.Brand = row.Brand
			}
			if row.Model != "" {
				p.Model = row.Model
			}
			if err := s.products.Save(ctx, p); err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", row.Name, err))
				continue
			}
			rep.UpdatedProducts++
		case errors.Is(err, domain.ErrNotFound):
			p = &domain.Product{
				Name:          row.Name,
				Category:      row.Category,
				BasePrice:     row.Price,
				DiscountPrice: row.DiscountPrice,
				Stock:         row.Stock,
				Brand:         row.Brand,
				Model:         row.Model,
				Active:        true,
			}
			if err := s.products.Save(ctx, p); err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", row.Name, err))
				continue
			}
			rep.CreatedProducts++
		default:
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", row.Name, err))
			continue
		}

		if row.Variant != "" {
			v := &domain.Variant{
				ProductID:     p.ID,
				Name:          row.Variant,
				Price:         row.Price,
				DiscountPrice: row.DiscountPrice,
				Color:         row.Color,
				Stock:         row.Stock,
			}
			if err := s.products.SaveVariant(ctx, v); err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("%s/%s: %v", row.Name, row.Variant, err))
				continue
			}
			rep.CreatedVariants++
		}
	}
}

// normalizeCategories batches the rows whose category label does not map
// into the closed set through the OpenAI API and rewrites them in place.
func normalizeCategories(ctx context.Context, rows []*importRow) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return errors.New("OPENAI_API_KEY not set")
	}

	unknown := map[string][]*importRow{}
	for _, row := range rows {
		if _, ok := domain.ParseCategory(row.Category); !ok {
			unknown[row.Category] = append(unknown[row.Category], row)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	labels := make([]string, 0, len(unknown))
	for l := range unknown {
		labels = append(labels, l)
	}

	prompt := fmt.Sprintf(`Map each raw product category label to exactly one of:
switch, curtain, security, film, lighting, service.
Reply with JSON only: {"mappings":[{"raw":"...","category":"..."}]}
Use "skip" when no category fits.

Labels:
%s`, strings.Join(labels, "\n"))

	client := openai.NewClient(apiKey)
	callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	resp, err := client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: "gpt-4o-mini",
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You classify product category labels. Always return valid JSON covering every label."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   2000,
	})
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return errors.New("empty completion")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result struct {
		Mappings []struct {
			Raw      string `json:"raw"`
			Category string `json:"category"`
		} `json:"mappings"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return fmt.Errorf("parse completion: %w", err)
	}
	mapped := 0
	for _, m := range result.Mappings {
		if _, ok := domain.ParseCategory(m.Category); !ok {
			continue
		}
		for _, row := range unknown[m.Raw] {
			row.Category = m.Category
			mapped++
		}
	}
	log.Info().Int("labels", len(labels)).Int("rows_mapped", mapped).Msg("categories normalized")
	return nil
}

// adminExportProducts streams the full catalog as a workbook, one row per
// product, in the same column layout the importer reads.
func (s *Server) adminExportProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if !methodIs(w, r, http.MethodGet) {
		return
	}
	list, _, err := s.products.List(r.Context(), domain.ProductFilter{PageSize: 10000})
	if err != nil {
		writeError(w, err)
		return
	}

	f := excelize.NewFile()
	const sheet = "Catalog"
	f.SetSheetName("Sheet1", sheet)
	header := []any{"Name", "Category", "Variant", "Color", "Price", "Discount", "Stock", "Brand", "Model"}
	for j, v := range header {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		f.SetCellValue(sheet, cell, v)
	}
	rowNum := 2
	writeRow := func(vals []any) {
		for j, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			f.SetCellValue(sheet, cell, v)
		}
		rowNum++
	}
	for i := range list {
		p := &list[i]
		if len(p.Variants) == 0 {
			writeRow([]any{p.Name, p.Category, "", "", p.BasePrice, p.DiscountPrice, p.Stock, p.Brand, p.Model})
			continue
		}
		for _, v := range p.Variants {
			writeRow([]any{p.Name, p.Category, v.Name, v.Color, v.Price, v.DiscountPrice, v.Stock, p.Brand, p.Model})
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="catalog-%s.xlsx"`, time.Now().Format("20060102")))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("xlsx write")
	}
}
