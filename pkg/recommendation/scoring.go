package recommendation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"modmaster-backend/domain"
	"modmaster-backend/entities"
)

// Scoring weights. The final score is additive on a base of 50 and
// clamped to [0, 100].
const (
	baseScore          = 50.0
	compatibilityBonus = 20.0
	universalBonus     = 10.0
	qualityWeight      = 10.0 // x quality score in [0,5]
	popularityWeight   = 5.0  // x popularity score in [0,1]
	preferenceBonus    = 15.0
	budgetBonus        = 10.0

	trendingThreshold    = 0.6
	highlyRatedThreshold = 4.0
	recencyWindowDays    = 30.0
)

type (
	// ScoreInput is everything the engine looks at. Price is the effective
	// marketplace price the orchestrator resolved for the part; Now anchors
	// the recency decay so scoring stays deterministic.
	ScoreInput struct {
		Part        *entities.Part
		Vehicles    []*entities.Vehicle
		Preferences domain.Preferences
		Price       float64
		Now         time.Time
	}

	ScoreResult struct {
		Score   float64
		Reasons []string
	}
)

// Score computes the 0-100 recommendation score for a candidate part. It
// has no side effects: the same input always yields the same score and the
// same reason ordering.
func Score(in ScoreInput) ScoreResult {
	score := baseScore

	vehicleFit := false
	var fittedVehicle *entities.Vehicle
	preferred := categoryPreferred(in.Part.Category, in.Preferences.Categories)

	if len(in.Vehicles) == 0 {
		if preferred {
			score += preferenceBonus
		}
	}
	// Compatibility and preference bonuses accrue independently per
	// vehicle and are summed before the final clamp.
	for _, vehicle := range in.Vehicles {
		if partFitsVehicle(in.Part, vehicle) {
			score += compatibilityBonus
			if !vehicleFit {
				vehicleFit = true
				fittedVehicle = vehicle
			}
		} else if in.Part.IsUniversal {
			score += universalBonus
		}
		if preferred {
			score += preferenceBonus
		}
	}

	quality := clamp(in.Part.QualityScore, 0, 5)
	score += quality * qualityWeight

	popularity := PopularityScore(in.Part, in.Now)
	score += popularity * popularityWeight

	if budgetFits(in.Price, in.Preferences) {
		score += budgetBonus
	}

	score = clamp(score, 0, 100)

	return ScoreResult{
		Score:   score,
		Reasons: buildReasons(in.Part, popularity, quality, vehicleFit, fittedVehicle),
	}
}

// PopularityScore folds the part's trending signals (views, social
// mentions, review count) into [0,1], decayed by listing age:
// recencyFactor = max(0, 1 - daysSinceListed/30).
func PopularityScore(part *entities.Part, now time.Time) float64 {
	views := math.Min(float64(part.ViewCount)/1000.0, 1.0)
	mentions := math.Min(float64(part.SocialMentions)/200.0, 1.0)
	reviews := math.Min(float64(part.ReviewCount)/100.0, 1.0)
	trending := (views + mentions + reviews) / 3.0

	days := now.Sub(part.ListedAt).Hours() / 24.0
	recencyFactor := math.Max(0, 1.0-days/recencyWindowDays)

	return clamp(trending*recencyFactor, 0, 1)
}

func partFitsVehicle(part *entities.Part, vehicle *entities.Vehicle) bool {
	makeMatch := false
	for _, m := range part.CompatibleMakes {
		if strings.EqualFold(m, vehicle.Make) {
			makeMatch = true
			break
		}
	}
	if !makeMatch {
		return false
	}
	if len(part.CompatibleModels) == 0 {
		return true
	}
	for _, m := range part.CompatibleModels {
		if strings.EqualFold(m, vehicle.Model) {
			return true
		}
	}
	return false
}

func categoryPreferred(category string, preferred []string) bool {
	for _, c := range preferred {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

func budgetFits(price float64, prefs domain.Preferences) bool {
	if price <= 0 || prefs.BudgetMax <= 0 {
		return false
	}
	return price >= prefs.BudgetMin && price <= prefs.BudgetMax
}

// buildReasons lists triggered bonuses in fixed priority order:
// trending > highly rated > vehicle fit, with a generic fallback when no
// bonus applies.
func buildReasons(part *entities.Part, popularity, quality float64, vehicleFit bool, fitted *entities.Vehicle) []string {
	var reasons []string

	if popularity >= trendingThreshold {
		reasons = append(reasons, "Trending in the community right now")
	}
	if quality >= highlyRatedThreshold {
		reasons = append(reasons, fmt.Sprintf("Highly rated by other users (%.1f/5)", quality))
	}
	if vehicleFit && fitted != nil {
		reasons = append(reasons, fmt.Sprintf("Fits your %s %s", fitted.Make, fitted.Model))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Recommended based on your preferences")
	}
	return reasons
}

// PriorityForScore maps a score onto the coarse priority tiers stored with
// each recommendation.
func PriorityForScore(score float64) string {
	switch {
	case score >= 80:
		return entities.RecommendationPriorityHigh
	case score >= 60:
		return entities.RecommendationPriorityMedium
	default:
		return entities.RecommendationPriorityLow
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
