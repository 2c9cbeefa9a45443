package catalog

import (
	"github.com/fjod/go_cart/fitstore/internal/domain"
)

const maxRecommendations = 6

// QuizAnswers are the fitness quiz answers. Empty answers take the quiz
// defaults.
type QuizAnswers struct {
	Goal        string `json:"goal"`
	Experience  string `json:"experience"`
	WorkoutType string `json:"workout_type"`
	Space       string `json:"space"`
	Time        string `json:"time"`
}

type QuizResult struct {
	Goal            string           `json:"goal"`
	Experience      string           `json:"experience"`
	Preferences     []string         `json:"preferences"`
	Recommendations []domain.Product `json:"recommendations"`
}

func (a QuizAnswers) withDefaults() QuizAnswers {
	if a.Goal == "" {
		a.Goal = "general-fitness"
	}
	if a.Experience == "" {
		a.Experience = "beginner"
	}
	if a.WorkoutType == "" {
		a.WorkoutType = "mixed"
	}
	if a.Space == "" {
		a.Space = "medium"
	}
	if a.Time == "" {
		a.Time = "medium"
	}
	return a
}

// Recommend filters products by goal and available space and keeps at most
// six, in catalog order.
func Recommend(products []domain.Product, answers QuizAnswers) QuizResult {
	a := answers.withDefaults()
	match := goalMatcher(a.Goal)

	recs := make([]domain.Product, 0, maxRecommendations)
	for _, p := range products {
		if !match(p) {
			continue
		}
		if a.Space == "small" && !fitsSmallSpace(p) {
			continue
		}
		recs = append(recs, p)
		if len(recs) == maxRecommendations {
			break
		}
	}

	return QuizResult{
		Goal:            a.Goal,
		Experience:      a.Experience,
		Preferences:     []string{a.WorkoutType, a.Space, a.Time},
		Recommendations: recs,
	}
}

func goalMatcher(goal string) func(domain.Product) bool {
	switch goal {
	case "weight-loss":
		return func(p domain.Product) bool {
			return p.HasTag("cardio") || p.Category == "nutrition" || p.HasTag("resistance")
		}
	case "muscle-building":
		return func(p domain.Product) bool {
			return p.HasTag("strength") || p.HasTag("muscle-building") || p.Category == "nutrition"
		}
	case "wellness":
		return func(p domain.Product) bool {
			return p.Category == "wellness" || p.HasTag("yoga") || p.HasTag("meditation")
		}
	case "flexibility":
		return func(p domain.Product) bool {
			return p.HasTag("yoga") || p.HasTag("stretching") || p.HasTag("balance")
		}
	default:
		return func(p domain.Product) bool { return p.IsBestSeller }
	}
}

func fitsSmallSpace(p domain.Product) bool {
	return p.HasTag("portable") || p.Category == "yoga" || p.Category == "digital"
}
