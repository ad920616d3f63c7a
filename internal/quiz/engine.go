package quiz

import (
	"sort"
	"strings"

	"github.com/genesis-wellness/storefront-api/internal/catalog"
)

// Answers holds the five questionnaire inputs. Values are free-form strings;
// anything outside the recognised vocabulary normalises to a neutral no-op.
type Answers struct {
	Goal       string `json:"goal"`
	Stress     string `json:"stress"`
	Sleep      string `json:"sleep"`
	Training   string `json:"training"`
	Foundation string `json:"foundation"`
}

// Normalize lowercases and trims every answer field.
func (a Answers) Normalize() Answers {
	norm := func(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
	return Answers{
		Goal:       norm(a.Goal),
		Stress:     norm(a.Stress),
		Sleep:      norm(a.Sleep),
		Training:   norm(a.Training),
		Foundation: norm(a.Foundation),
	}
}

// Scores maps every category to its computed weight. Negative values are
// permitted; nothing is clamped.
type Scores map[catalog.Category]int

// Rationale carries human-readable notes about which rules fired.
type Rationale struct {
	Scores    Scores   `json:"scores"`
	Notes     []string `json:"notes"`
	StackSize int      `json:"stackSize"`
}

// Recommendation is the deterministic result of scoring one answer set
// against one catalog snapshot.
type Recommendation struct {
	Answers    Answers           `json:"answers"`
	Scores     Scores            `json:"scores"`
	Products   []catalog.Product `json:"products"`
	ProductIDs []string          `json:"productIds"`
	Rationale  Rationale         `json:"rationale"`
}

// stimulantTerms flags products that stress-sensitive or sleep-deprived users
// should avoid in the Energy, Performance and Focus categories.
var stimulantTerms = []string{
	"pre workout",
	"fat burner",
	"metabolic ignite",
	"energy tea",
	"green coffee",
	"guarana",
	"caffeine",
}

// categoryPreferences lists ordered keyword groups per category. Within a
// category the first group that matches any candidate name wins.
var categoryPreferences = map[catalog.Category][][]string{
	catalog.CategoryFoundational: {
		{"multivitamin", "daily multi"},
		{"omega-3", "fish oil", "krill oil", "cod liver"},
		{"magnesium glycinate", "vitamin d3", "coq10"},
	},
	catalog.CategoryFocus: {
		{"lions mane", "nootropic", "bacopa", "ginkgo"},
		{"rhodiola", "ashwagandha", "ginseng", "holy basil"},
		{"b12", "coq10", "mct oil"},
	},
	catalog.CategoryEnergy: {
		{"berberine", "metabolic", "green coffee", "garcinia", "keto"},
		{"electrolyte", "mct oil", "energy tea"},
		{"apple cider vinegar"},
	},
	catalog.CategorySleep: {
		{"melatonin", "sleep tea", "valerian", "gaba", "5-htp"},
		{"magnesium glycinate", "tart cherry"},
		{"holy basil"},
	},
	catalog.CategoryRecovery: {
		{"electrolyte", "post-workout", "tart cherry"},
		{"joint", "turmeric", "collagen"},
		{"digestive", "probiotic"},
	},
	catalog.CategoryPerformance: {
		{"creatine"},
		{"whey protein", "bcaa"},
		{"electrolyte", "beetroot", "pre workout"},
	},
	catalog.CategoryImmunity: {
		{"elderberry", "vitamin c", "zinc"},
		{"echinacea", "mushroom", "olive leaf"},
		{"quercetin", "goldenseal", "astragalus"},
	},
}

// ScoreAnswers converts an answer set into category weights.
func ScoreAnswers(raw Answers) Scores {
	answers := raw.Normalize()
	scores := make(Scores, 7)
	for _, c := range catalog.Categories() {
		scores[c] = 0
	}

	scores[catalog.CategoryFoundational] += 2

	switch answers.Goal {
	case "focus":
		scores[catalog.CategoryFocus] += 4
	case "energy":
		scores[catalog.CategoryEnergy] += 4
		scores[catalog.CategoryPerformance] += 1
	case "performance":
		scores[catalog.CategoryPerformance] += 4
		scores[catalog.CategoryRecovery] += 1
	case "sleep":
		scores[catalog.CategorySleep] += 4
		scores[catalog.CategoryRecovery] += 2
	case "recovery":
		scores[catalog.CategoryRecovery] += 4
		scores[catalog.CategorySleep] += 1
	case "immunity":
		scores[catalog.CategoryImmunity] += 4
		scores[catalog.CategoryFoundational] += 1
	default:
		scores[catalog.CategoryFoundational] += 4
		scores[catalog.CategoryRecovery] += 1
	}

	switch answers.Stress {
	case "high":
		scores[catalog.CategorySleep] += 2
		scores[catalog.CategoryRecovery] += 2
		scores[catalog.CategoryFocus] += 1
		scores[catalog.CategoryEnergy] -= 1
	case "medium":
		scores[catalog.CategoryFocus] += 1
		scores[catalog.CategoryRecovery] += 1
	case "low":
		scores[catalog.CategoryPerformance] += 1
	}

	switch answers.Sleep {
	case "poor":
		scores[catalog.CategorySleep] += 3
		scores[catalog.CategoryRecovery] += 1
		scores[catalog.CategoryEnergy] -= 1
	case "ok":
		scores[catalog.CategorySleep] += 1
	case "strong":
		scores[catalog.CategoryFocus] += 1
		scores[catalog.CategoryPerformance] += 1
	}

	switch answers.Training {
	case "high":
		scores[catalog.CategoryPerformance] += 3
		scores[catalog.CategoryRecovery] += 2
		scores[catalog.CategoryEnergy] += 1
	case "moderate":
		scores[catalog.CategoryPerformance] += 2
		scores[catalog.CategoryRecovery] += 1
	case "low":
		scores[catalog.CategoryFoundational] += 1
	}

	switch answers.Foundation {
	case "none":
		scores[catalog.CategoryFoundational] += 4
	case "some":
		scores[catalog.CategoryFoundational] += 2
	case "solid":
		scores[catalog.CategoryFocus] += 1
		scores[catalog.CategoryPerformance] += 1
	}

	return scores
}

// GoalCategory maps a goal answer to the category it must cover. Unknown goals
// fall back to Foundational.
func GoalCategory(goal string) catalog.Category {
	switch strings.ToLower(strings.TrimSpace(goal)) {
	case "focus":
		return catalog.CategoryFocus
	case "energy":
		return catalog.CategoryEnergy
	case "sleep":
		return catalog.CategorySleep
	case "performance":
		return catalog.CategoryPerformance
	case "recovery":
		return catalog.CategoryRecovery
	case "immunity":
		return catalog.CategoryImmunity
	default:
		return catalog.CategoryFoundational
	}
}

func avoidStimulants(answers Answers) bool {
	return answers.Stress == "high" || answers.Sleep == "poor"
}

// rankCategories orders categories by descending score. Ties keep the
// canonical enumeration order, making the ranking fully deterministic.
func rankCategories(scores Scores) []catalog.Category {
	ranked := catalog.Categories()
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

type picker struct {
	products  []catalog.Product
	avoidStim bool
	used      map[string]struct{}
	stack     []catalog.Product
}

// candidates returns unused products of the category. When the stimulant
// filter applies, stimulant-free candidates are preferred but the unfiltered
// set is returned if filtering would leave nothing.
func (p *picker) candidates(category catalog.Category) []catalog.Product {
	all := make([]catalog.Product, 0, len(p.products))
	for _, product := range p.products {
		if product.Category != category {
			continue
		}
		if _, taken := p.used[product.ID]; taken {
			continue
		}
		all = append(all, product)
	}

	stimSensitive := category == catalog.CategoryEnergy ||
		category == catalog.CategoryPerformance ||
		category == catalog.CategoryFocus
	if !p.avoidStim || !stimSensitive {
		return all
	}

	safe := make([]catalog.Product, 0, len(all))
	for _, product := range all {
		if !containsAny(product.Name+" "+product.Ingredients, stimulantTerms) {
			safe = append(safe, product)
		}
	}
	if len(safe) > 0 {
		return safe
	}
	return all
}

// pick selects one product from the category, honouring keyword preferences,
// and reports whether anything was added.
func (p *picker) pick(category catalog.Category) bool {
	candidates := p.candidates(category)
	if len(candidates) == 0 {
		return false
	}

	chosen := candidates[0]
	for _, group := range categoryPreferences[category] {
		found := false
		for _, candidate := range candidates {
			if containsAny(candidate.Name, group) {
				chosen = candidate
				found = true
				break
			}
		}
		if found {
			break
		}
	}

	p.used[chosen.ID] = struct{}{}
	p.stack = append(p.stack, chosen)
	return true
}

// ensure adds a pick only when the category is not yet represented.
func (p *picker) ensure(category catalog.Category) {
	for _, product := range p.stack {
		if product.Category == category {
			return
		}
	}
	p.pick(category)
}

func targetStackSize(answers Answers) int {
	if answers.Training == "high" || answers.Foundation == "none" {
		return 5
	}
	return 4
}

func buildRationale(answers Answers, scores Scores, stackSize int) Rationale {
	var notes []string

	notes = append(notes, "Primary objective weighted toward "+string(GoalCategory(answers.Goal))+".")
	if answers.Stress == "high" {
		notes = append(notes, "High stress input increased Recovery and Sleep support weighting.")
	}
	if answers.Sleep == "poor" {
		notes = append(notes, "Poor sleep input enforced at least one Sleep module.")
	}
	if answers.Training == "high" {
		notes = append(notes, "High training demand enforced a Performance module.")
	}
	if answers.Foundation == "none" {
		notes = append(notes, "No baseline indicated two Foundational modules for routine coverage.")
	}
	if avoidStimulants(answers) {
		notes = append(notes, "Recommendation logic filtered stimulant-forward products where possible.")
	}
	if len(notes) == 0 {
		notes = append(notes, "Balanced responses mapped to a foundational-first stack with targeted support.")
	}

	return Rationale{Scores: scores, Notes: notes, StackSize: stackSize}
}

// RecommendStack builds a deliverable product stack for one answer set. It is
// a pure function of its inputs: the same catalog and answers always produce
// the same product id sequence.
func RecommendStack(products []catalog.Product, raw Answers) Recommendation {
	answers := raw.Normalize()
	scores := ScoreAnswers(answers)
	ranked := rankCategories(scores)

	p := &picker{
		products:  products,
		avoidStim: avoidStimulants(answers),
		used:      make(map[string]struct{}),
	}

	foundationalCount := 1
	if answers.Foundation == "none" {
		foundationalCount = 2
	}
	for i := 0; i < foundationalCount; i++ {
		p.pick(catalog.CategoryFoundational)
	}

	p.ensure(GoalCategory(answers.Goal))

	if answers.Sleep == "poor" {
		p.ensure(catalog.CategorySleep)
	}
	if answers.Stress == "high" {
		p.ensure(catalog.CategoryRecovery)
	}
	if answers.Training == "high" || answers.Training == "moderate" {
		p.ensure(catalog.CategoryPerformance)
	}
	if answers.Goal == "immunity" {
		p.ensure(catalog.CategoryImmunity)
	}

	target := targetStackSize(answers)
	for _, category := range ranked {
		if len(p.stack) >= target {
			break
		}
		p.pick(category)
	}

	for len(p.stack) < 3 {
		added := p.pick(catalog.CategoryFoundational) ||
			p.pick(catalog.CategoryRecovery) ||
			p.pick(catalog.CategoryFocus)
		if !added {
			break
		}
	}

	ids := make([]string, 0, len(p.stack))
	for _, product := range p.stack {
		ids = append(ids, product.ID)
	}

	return Recommendation{
		Answers:    answers,
		Scores:     scores,
		Products:   p.stack,
		ProductIDs: ids,
		Rationale:  buildRationale(answers, scores, len(p.stack)),
	}
}

// AnswerCombinations enumerates the full questionnaire answer space used by
// the combinatorial verification suite.
func AnswerCombinations() []Answers {
	goals := []string{"focus", "energy", "sleep", "immunity", "foundation"}
	stress := []string{"high", "medium", "low"}
	sleep := []string{"poor", "ok", "strong"}
	training := []string{"high", "moderate", "low"}
	foundation := []string{"none", "some", "solid"}

	var all []Answers
	for _, g := range goals {
		for _, st := range stress {
			for _, sl := range sleep {
				for _, tr := range training {
					for _, f := range foundation {
						all = append(all, Answers{Goal: g, Stress: st, Sleep: sl, Training: tr, Foundation: f})
					}
				}
			}
		}
	}
	return all
}
