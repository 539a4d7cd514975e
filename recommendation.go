package depot

import "strings"

// Rating is the coarse action class behind an analyst recommendation.
type Rating int

const (
	RatingHold Rating = iota
	RatingBuy
	RatingSell
)

func (r Rating) String() string {
	switch r {
	case RatingBuy:
		return "BUY"
	case RatingSell:
		return "SELL"
	case RatingHold:
		return "HOLD"
	}
	return "HOLD"
}

var (
	buyTerms  = []string{"STRONG BUY", "BUY", "ACCUMULATE", "OVERWEIGHT"}
	sellTerms = []string{"STRONG SELL", "SELL", "REDUCE", "UNDERWEIGHT"}
	holdTerms = []string{"HOLD", "NEUTRAL", "MARKET PERFORM", "EQUAL WEIGHT"}
)

// ClassifyRecommendation maps a free-form recommendation string to a Rating
// by case-insensitive substring matching. Buy synonyms win over sell synonyms
// ("STRONG BUY" must not be caught by a later scan), and anything
// unrecognized defaults to hold.
func ClassifyRecommendation(s string) Rating {
	u := strings.ToUpper(s)
	for _, term := range buyTerms {
		if strings.Contains(u, term) {
			return RatingBuy
		}
	}
	for _, term := range sellTerms {
		if strings.Contains(u, term) {
			return RatingSell
		}
	}
	for _, term := range holdTerms {
		if strings.Contains(u, term) {
			return RatingHold
		}
	}
	return RatingHold
}
