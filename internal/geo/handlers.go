// Package geo infers a visitor's country from edge headers so the storefront
// can preselect a shipping destination.
package geo

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/genesis-wellness/storefront-api/internal/common"
)

// countryHeaders are checked in order; the first header carrying a valid
// ISO 3166-1 alpha-2 code wins.
var countryHeaders = []string{
	"X-Vercel-Ip-Country",
	"Cf-Ipcountry",
	"X-Country-Code",
	"X-Geo-Country",
}

var alpha2 = regexp.MustCompile(`^[A-Z]{2}$`)

// NormalizeCountryCode validates and canonicalises a two-letter country code.
// "UK" maps to "GB".
func NormalizeCountryCode(value string) string {
	code := strings.ToUpper(strings.TrimSpace(value))
	if code == "UK" {
		code = "GB"
	}
	if alpha2.MatchString(code) {
		return code
	}
	return ""
}

// FromAcceptLanguage extracts a region hint from an Accept-Language header.
func FromAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		locale := strings.TrimSpace(strings.Split(token, ";")[0])
		parts := strings.FieldsFunc(locale, func(r rune) bool { return r == '-' || r == '_' })
		if len(parts) < 2 {
			continue
		}
		if region := NormalizeCountryCode(parts[len(parts)-1]); region != "" {
			return region
		}
	}
	return ""
}

// Handler serves the country hint endpoint.
type Handler struct{}

// Hint reports the inferred visitor country code, or null when no signal exists.
func (Handler) Hint(w http.ResponseWriter, r *http.Request) {
	countryCode := ""
	source := "accept-language-fallback"
	for _, header := range countryHeaders {
		if code := NormalizeCountryCode(r.Header.Get(header)); code != "" {
			countryCode = code
			source = "edge-header"
			break
		}
	}
	if countryCode == "" {
		countryCode = FromAcceptLanguage(r.Header.Get("Accept-Language"))
	}

	w.Header().Set("Cache-Control", "no-store, max-age=0")
	var payload any
	if countryCode != "" {
		payload = countryCode
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"countryCode": payload,
		"source":      source,
	})
}
