package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// ImageScraper finds stock product photos for catalog entries that were
// imported without images. DuckDuckGo Images is tried first, Google Images
// is the fallback.
type ImageScraper struct {
	client *http.Client
}

func NewImageScraper() *ImageScraper {
	return &ImageScraper{
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *ImageScraper) SearchImages(ctx context.Context, productName, brand, model string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = 6
	}
	if maxResults > 20 {
		maxResults = 20
	}
	query := buildImageQuery(productName, brand, model)

	images, err := s.searchDuckDuckGo(ctx, query, maxResults)
	if err == nil && len(images) > 0 {
		log.Info().Str("query", query).Int("found", len(images)).Msg("images found on duckduckgo")
		return images, nil
	}
	log.Warn().Err(err).Str("query", query).Msg("duckduckgo search failed, trying google images")

	images, err = s.searchGoogleImages(ctx, query, maxResults)
	if err == nil && len(images) > 0 {
		log.Info().Str("query", query).Int("found", len(images)).Msg("images found on google")
		return images, nil
	}
	return nil, fmt.Errorf("no images found: %w", err)
}

func buildImageQuery(productName, brand, model string) string {
	parts := []string{}
	if brand = strings.TrimSpace(brand); brand != "" {
		parts = append(parts, brand)
	}
	if model = strings.TrimSpace(model); model != "" {
		parts = append(parts, model)
	}
	if len(parts) == 0 {
		parts = append(parts, productName)
	}
	parts = append(parts, "smart home device")
	return strings.Join(parts, " ")
}

var vqdPattern = regexp.MustCompile(`vqd="([^"]+)"`)

// searchDuckDuckGo drives the unofficial i.js endpoint. It needs a vqd token
// scraped from the regular search page first.
func (s *ImageScraper) searchDuckDuckGo(ctx context.Context, query string, maxResults int) ([]string, error) {
	searchURL := fmt.Sprintf("https://duckduckgo.com/?q=%s&iax=images&ia=images", url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	matches := vqdPattern.FindStringSubmatch(string(body))
	if len(matches) < 2 {
		return nil, fmt.Errorf("vqd token not found")
	}

	imageSearchURL := fmt.Sprintf("https://duckduckgo.com/i.js?q=%s&vqd=%s&o=json&p=1&s=0",
		url.QueryEscape(query), url.QueryEscape(matches[1]))
	req2, err := http.NewRequestWithContext(ctx, http.MethodGet, imageSearchURL, nil)
	if err != nil {
		return nil, err
	}
	req2.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req2.Header.Set("Referer", searchURL)

	resp2, err := s.client.Do(req2)
	if err != nil {
		return nil, err
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp2.StatusCode)
	}

	var result struct {
		Results []struct {
			Image     string `json:"image"`
			Thumbnail string `json:"thumbnail"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode image results: %w", err)
	}

	const minSize = 300
	images := []string{}
	for _, img := range result.Results {
		if img.Width < minSize || img.Height < minSize {
			continue
		}
		imageURL := img.Image
		if imageURL == "" {
			imageURL = img.Thumbnail
		}
		if imageURL != "" && strings.HasPrefix(imageURL, "http") {
			images = append(images, imageURL)
			if len(images) >= maxResults {
				break
			}
		}
	}
	return images, nil
}

var embeddedImgPattern = regexp.MustCompile(`"(https?://[^"]+\.(?:jpg|jpeg|png|webp)[^"]*)"`)

func (s *ImageScraper) searchGoogleImages(ctx context.Context, query string, maxResults int) ([]string, error) {
	searchURL := fmt.Sprintf("https://www.google.com/search?tbm=isch&q=%s&safe=active", url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	images := []string{}
	doc.Find("img[data-src], img[src]").Each(func(_ int, sel *goquery.Selection) {
		if len(images) >= maxResults {
			return
		}
		imageURL := ""
		if src, ok := sel.Attr("data-src"); ok && strings.HasPrefix(src, "http") {
			imageURL = src
		} else if src, ok := sel.Attr("src"); ok && strings.HasPrefix(src, "http") {
			imageURL = src
		}
		if imageURL == "" || !usableImageURL(imageURL) {
			return
		}
		images = append(images, imageURL)
	})

	// Full-size URLs live in the embedded JSON, the img tags are thumbnails.
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if len(images) >= maxResults {
			return
		}
		for _, match := range embeddedImgPattern.FindAllStringSubmatch(sel.Text(), -1) {
			if len(images) >= maxResults {
				break
			}
			if len(match) > 1 && usableImageURL(match[1]) {
				images = append(images, match[1])
			}
		}
	})

	if len(images) == 0 {
		return nil, fmt.Errorf("no usable images in results")
	}
	return images, nil
}

func usableImageURL(u string) bool {
	lower := strings.ToLower(u)
	return !strings.Contains(lower, "logo") &&
		!strings.Contains(lower, "icon") &&
		!strings.Contains(u, "gstatic.com")
}
