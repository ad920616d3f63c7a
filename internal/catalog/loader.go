package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// File is the canonical catalog document produced by the intake tooling.
type File struct {
	Products []json.RawMessage `json:"products"`
	Bundles  []json.RawMessage `json:"bundles"`
}

// Load reads the catalog document at path. Malformed entries are dropped at
// this boundary so downstream engines never see an unresolvable product.
func Load(path string) ([]Product, []Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document from raw JSON.
func Parse(data []byte) ([]Product, []Bundle, error) {
	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]Product, 0, len(doc.Products))
	seen := make(map[string]struct{}, len(doc.Products))
	for _, raw := range doc.Products {
		var p Product
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		if p.ID == "" || p.Name == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		category, ok := ParseCategory(string(p.Category))
		if !ok {
			continue
		}
		p.Category = category
		if p.Price < 0 || p.Servings <= 0 {
			continue
		}
		if p.ShippingScope != ScopeUSOnly {
			p.ShippingScope = ScopeAllDestinations
		}
		seen[p.ID] = struct{}{}
		products = append(products, p)
	}

	bundles := make([]Bundle, 0, len(doc.Bundles))
	for _, raw := range doc.Bundles {
		var b Bundle
		if err := json.Unmarshal(raw, &b); err != nil {
			continue
		}
		b.ID = strings.TrimSpace(b.ID)
		if b.ID == "" || len(b.ItemIDs) < 2 {
			continue
		}
		resolved := b.ItemIDs[:0]
		for _, id := range b.ItemIDs {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				resolved = append(resolved, id)
			}
		}
		b.ItemIDs = resolved
		if len(b.ItemIDs) < 2 {
			continue
		}
		bundles = append(bundles, b)
	}

	return products, bundles, nil
}
