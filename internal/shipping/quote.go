package shipping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
	"github.com/genesis-wellness/storefront-api/internal/pricing"
)

// Status is the outcome discriminant of a shipping quote. Non-success
// conditions are modelled as values, never as errors.
type Status string

const (
	// StatusEmpty means no destination or cart context exists yet.
	StatusEmpty Status = "empty"
	// StatusPending means the destination has not been selected.
	StatusPending Status = "pending"
	// StatusBlocked means this cart/destination combination can never rate
	// without user action.
	StatusBlocked Status = "blocked"
	// StatusQuote means the parcel exceeds the rate table and needs a manual quote.
	StatusQuote Status = "quote"
	// StatusOK means a rate was found.
	StatusOK Status = "ok"
)

// Reason codes carried on non-ok quotes.
const (
	ReasonDestinationRequired    = "DESTINATION_REQUIRED"
	ReasonUSOnlyProduct          = "US_ONLY_PRODUCT"
	ReasonDestinationUnsupported = "DESTINATION_UNSUPPORTED"
	ReasonWeightLimit            = "WEIGHT_LIMIT"
)

// USRegionMode selects contiguous vs non-contiguous pricing for US shipments.
const (
	USRegionAuto         = "auto"
	USRegionLower48      = "lower-48"
	USRegionAlaskaHawaii = "alaska-hawaii"
)

// Quote is the computed shipping result. It is recomputed fresh on every
// cart/destination/service change and never persisted.
type Quote struct {
	Status     Status        `json:"status"`
	Amount     pricing.Money `json:"amount"`
	Label      string        `json:"label"`
	ReasonCode string        `json:"reasonCode,omitempty"`
	Message    string        `json:"message,omitempty"`
	Zone       Zone          `json:"zone,omitempty"`
	Service    string        `json:"service"`
	WeightLb   float64       `json:"weightLb"`
}

// Destination describes where and how the parcel should ship.
type Destination struct {
	Country      string
	CityRegion   string
	USRegionMode string
	Service      string
}

var (
	akToken = regexp.MustCompile(`\bak\b`)
	hiToken = regexp.MustCompile(`\bhi\b`)
)

// nonContiguousFromText infers Alaska/Hawaii destinations from free-form
// city/region input.
func nonContiguousFromText(cityRegion string) bool {
	text := strings.ToLower(cityRegion)
	if text == "" {
		return false
	}
	if strings.Contains(text, "alaska") || strings.Contains(text, "hawaii") {
		return true
	}
	return akToken.MatchString(text) || hiToken.MatchString(text)
}

func resolveNonContiguous(mode, cityRegion string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case USRegionLower48:
		return false
	case USRegionAlaskaHawaii:
		return true
	default:
		return nonContiguousFromText(cityRegion)
	}
}

func normalizeService(service string) string {
	if strings.ToLower(strings.TrimSpace(service)) == ServiceExpress {
		return ServiceExpress
	}
	return ServiceRegular
}

// Calculate produces a shipping quote for a cart and destination. It is a pure
// function: unknown product ids are skipped, and every non-success state is a
// typed status rather than an error.
func Calculate(lines []pricing.Line, dest Destination, lookup func(string) (catalog.Product, bool), zones ZoneLookup) Quote {
	weightLb := ParcelWeightLb(lines, lookup)
	country := strings.TrimSpace(dest.Country)
	service := normalizeService(dest.Service)

	if country == "" {
		return Quote{
			Status:     StatusPending,
			Label:      "Select shipping destination",
			ReasonCode: ReasonDestinationRequired,
			Service:    service,
			WeightLb:   weightLb,
		}
	}

	zone, extended, supported := zones.Resolve(country)

	if country != catalog.DomesticCountry {
		if restricted := usOnlyProducts(lines, lookup); len(restricted) > 0 {
			return Quote{
				Status:     StatusBlocked,
				Label:      "US-only items in cart",
				ReasonCode: ReasonUSOnlyProduct,
				Message:    restrictedMessage(restricted),
				Zone:       zone,
				Service:    service,
				WeightLb:   weightLb,
			}
		}
	}

	if !supported {
		return Quote{
			Status:     StatusBlocked,
			Label:      "Destination unavailable",
			ReasonCode: ReasonDestinationUnsupported,
			Message:    country + " is not available for automated shipping yet.",
			Service:    service,
			WeightLb:   weightLb,
		}
	}

	if zone == ZoneUS {
		nonContiguous := resolveNonContiguous(dest.USRegionMode, dest.CityRegion)
		rate, ok := DomesticRate(weightLb, nonContiguous)
		if !ok {
			return Quote{
				Status:     StatusQuote,
				Label:      "Custom quote required",
				ReasonCode: ReasonWeightLimit,
				Message:    "US shipments over 20 lb require a manual shipping quote.",
				Zone:       zone,
				Service:    ServiceRegular,
				WeightLb:   weightLb,
			}
		}
		label := "US standard (Lower 48)"
		if nonContiguous {
			label = "US standard (Alaska/Hawaii)"
		}
		return Quote{
			Status:   StatusOK,
			Amount:   rate,
			Label:    label,
			Zone:     zone,
			Service:  ServiceRegular,
			WeightLb: weightLb,
		}
	}

	rate, ok := InternationalRate(zone, service, weightLb)
	if !ok {
		return Quote{
			Status:     StatusQuote,
			Label:      "Custom quote required",
			ReasonCode: ReasonWeightLimit,
			Message:    "International parcels above 4 lb require a manual shipping quote.",
			Zone:       zone,
			Service:    service,
			WeightLb:   weightLb,
		}
	}

	label := string(zone)
	if extended {
		label += " extended"
	}
	label += " " + service
	return Quote{
		Status:   StatusOK,
		Amount:   rate,
		Label:    label,
		Zone:     zone,
		Service:  service,
		WeightLb: weightLb,
	}
}

// EmptyQuote is the placeholder returned before any cart or destination
// context exists.
func EmptyQuote() Quote {
	return Quote{Status: StatusEmpty, Label: "Shipping calculated at checkout", Service: ServiceRegular}
}

func usOnlyProducts(lines []pricing.Line, lookup func(string) (catalog.Product, bool)) []catalog.Product {
	var restricted []catalog.Product
	for _, line := range lines {
		product, ok := lookup(line.ProductID)
		if !ok || product.ShippingScope != catalog.ScopeUSOnly {
			continue
		}
		restricted = append(restricted, product)
	}
	return restricted
}

func restrictedMessage(restricted []catalog.Product) string {
	names := make([]string, 0, 3)
	for i, product := range restricted {
		if i == 3 {
			break
		}
		names = append(names, product.Name)
	}
	suffix := ""
	if len(restricted) > 3 {
		suffix = fmt.Sprintf(" and %d more", len(restricted)-3)
	}
	return fmt.Sprintf(
		"Shipping constraint: %d item(s) are US-only (%s%s). Select United States or remove these items.",
		len(restricted), strings.Join(names, ", "), suffix,
	)
}
