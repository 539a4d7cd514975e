package depot

import "testing"

func TestClassifyRecommendation(t *testing.T) {
	cases := []struct {
		in   string
		want Rating
	}{
		{"BUY", RatingBuy},
		{"Strong Buy", RatingBuy},
		{"accumulate", RatingBuy},
		{"Overweight", RatingBuy},
		{"Recommendation: BUY with conviction", RatingBuy},
		{"SELL", RatingSell},
		{"strong sell", RatingSell},
		{"Reduce", RatingSell},
		{"Underweight", RatingSell},
		{"HOLD", RatingHold},
		{"Neutral", RatingHold},
		{"Market Perform", RatingHold},
		{"Equal Weight", RatingHold},
		{"", RatingHold},
		{"no opinion", RatingHold},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := ClassifyRecommendation(c.in); got != c.want {
				t.Errorf("ClassifyRecommendation(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestRatingString(t *testing.T) {
	if got, want := RatingBuy.String(), "BUY"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := RatingSell.String(), "SELL"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := RatingHold.String(), "HOLD"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
