package shipping

import "github.com/genesis-wellness/storefront-api/internal/pricing"

// Service levels offered for international shipments. Domestic shipments are
// always regular.
const (
	ServiceRegular = "regular"
	ServiceExpress = "express"
)

// Domestic weight tiers in pounds with contiguous / non-contiguous pricing.
// Parcels above the last tier require a manual quote.
var domesticTiers = []struct {
	maxLb         float64
	contiguous    pricing.Money
	nonContiguous pricing.Money
}{
	{1, 599, 1699},
	{5, 1199, 3499},
	{10, 1699, 5999},
	{15, 2499, 8999},
	{20, 3500, 11999},
}

// DomesticWeightLimitLb is the heaviest parcel the domestic table covers.
const DomesticWeightLimitLb = 20.0

// InternationalWeightLimitLb is the heaviest parcel the international table covers.
const InternationalWeightLimitLb = 4.0

type internationalTier struct {
	upTo2 pricing.Money
	upTo4 pricing.Money
}

var internationalRegular = map[Zone]internationalTier{
	Zone1: {1199, 2199},
	Zone2: {1199, 2299},
	Zone3: {1499, 2699},
}

var internationalExpress = map[Zone]internationalTier{
	Zone1: {2999, 4499},
	Zone2: {3199, 4699},
	Zone3: {3899, 5799},
}

// DomesticRate returns the US rate for the parcel weight, reporting false
// when the weight exceeds the table ceiling.
func DomesticRate(weightLb float64, nonContiguous bool) (pricing.Money, bool) {
	for _, tier := range domesticTiers {
		if weightLb <= tier.maxLb {
			if nonContiguous {
				return tier.nonContiguous, true
			}
			return tier.contiguous, true
		}
	}
	return 0, false
}

// InternationalRate returns the zone rate for the parcel weight and service,
// reporting false when the weight exceeds the table ceiling.
func InternationalRate(zone Zone, service string, weightLb float64) (pricing.Money, bool) {
	table := internationalRegular
	if service == ServiceExpress {
		table = internationalExpress
	}
	rates, ok := table[zone]
	if !ok {
		return 0, false
	}
	if weightLb <= 2 {
		return rates.upTo2, true
	}
	if weightLb <= 4 {
		return rates.upTo4, true
	}
	return 0, false
}
