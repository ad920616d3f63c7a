// Command catalogimport converts a raw intake CSV into the canonical catalog
// JSON document consumed by the API at startup.
//
// Expected CSV headers: source_sku, source_name, form, category, servings,
// srp_usd, active_ingredients, us_only, featured.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
)

func main() {
	in := flag.String("in", "", "path to the raw intake CSV")
	out := flag.String("out", "catalog.json", "path for the canonical catalog JSON")
	flag.Parse()

	if *in == "" {
		log.Fatal("missing -in: path to the raw intake CSV")
	}

	file, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	defer file.Close()

	products, skipped, err := convert(file)
	if err != nil {
		log.Fatalf("convert: %v", err)
	}

	doc := map[string]any{
		"products": products,
		"bundles":  []any{},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("encode catalog: %v", err)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		log.Fatalf("write catalog: %v", err)
	}

	log.Printf("wrote %d products to %s (%d rows skipped)", len(products), *out, skipped)
}

func convert(r io.Reader) ([]catalog.Product, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"source_sku", "source_name", "category", "srp_usd"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var products []catalog.Product
	seen := map[string]struct{}{}
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}

		name := field(row, "source_name")
		id := slugify(field(row, "source_sku"))
		if id == "" {
			id = slugify(name)
		}
		if id == "" || name == "" {
			skipped++
			continue
		}
		if _, dup := seen[id]; dup {
			skipped++
			continue
		}

		category, ok := catalog.ParseCategory(field(row, "category"))
		if !ok {
			skipped++
			continue
		}
		price, ok := parsePriceCents(field(row, "srp_usd"))
		if !ok {
			skipped++
			continue
		}
		servings := parseServings(field(row, "servings"))

		scope := catalog.ScopeAllDestinations
		if isTruthy(field(row, "us_only")) {
			scope = catalog.ScopeUSOnly
		}

		seen[id] = struct{}{}
		products = append(products, catalog.Product{
			ID:            id,
			Name:          name,
			Category:      category,
			Price:         price,
			Servings:      servings,
			Format:        normalizeFormat(field(row, "form"), name),
			ShippingScope: scope,
			Ingredients:   field(row, "active_ingredients"),
			Featured:      isTruthy(field(row, "featured")),
		})
	}
	return products, skipped, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(value string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(value), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 70 {
		slug = slug[:70]
	}
	return slug
}

func parsePriceCents(value string) (int64, bool) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(value), "$")
	dollars, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || dollars < 0 {
		return 0, false
	}
	return int64(math.Round(dollars * 100)), true
}

func parseServings(value string) int {
	match := regexp.MustCompile(`\d+`).FindString(value)
	n, err := strconv.Atoi(match)
	if err != nil || n <= 0 {
		return 30
	}
	return n
}

func normalizeFormat(form, name string) string {
	text := strings.ToLower(form + " " + name)
	switch {
	case strings.Contains(text, "gumm"):
		return "Gummies"
	case strings.Contains(text, "softgel"):
		return "Softgels"
	case strings.Contains(text, "tablet"):
		return "Tablets"
	case strings.Contains(text, "chew"):
		return "Chewables"
	case strings.Contains(text, "tea"):
		return "Tea Bags"
	case strings.Contains(text, "powder"), strings.Contains(text, "protein"), strings.Contains(text, "bcaa"):
		return "Powder"
	case strings.Contains(text, "oil"), strings.Contains(text, "liquid"), strings.Contains(text, "oz"):
		return "Liquid"
	default:
		return "Capsules"
	}
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "yes", "y":
		return true
	}
	return false
}
