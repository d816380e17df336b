package core

import (
	"math"
	"testing"

	"github.com/modelbay/templatrend/schema"
)

// FuzzComputeTrendScore fuzzes the trend score with random metric inputs.
func FuzzComputeTrendScore(f *testing.F) {
	seeds := []struct {
		usage   int
		users   int
		success float64
		exec    float64
		rating  float64
		ratings int
		favs    int
	}{
		{40, 8, 90, 2000, 4.0, 12, 3},
		{0, 0, 0, 0, 0, 0, 0}, // edge case
		{100000, 500, 100, 150000, 5, 99, 50},
	}
	for _, seed := range seeds {
		f.Add(seed.usage, seed.users, seed.success, seed.exec, seed.rating, seed.ratings, seed.favs)
	}

	f.Fuzz(func(t *testing.T, usage, users int, success, exec, rating float64, ratings, favs int) {
		m := schema.UsageMetrics{
			UsageCount:           usage,
			UniqueUsers:          users,
			SuccessRate:          success,
			AverageExecutionTime: exec,
		}
		r := schema.RatingStats{
			AverageRating: rating,
			TotalRatings:  ratings,
			FavoriteCount: favs,
		}
		score := computeTrendScore(m, r, nil)

		// In-range inputs must never escape the 0-100 band.
		inRange := usage >= 0 && users >= 0 && favs >= 0 &&
			success >= 0 && success <= 100 && exec >= 0 &&
			rating >= 0 && rating <= 5
		if inRange && (score < 0 || score > 100) {
			t.Errorf("score %v out of range for metrics %+v ratings %+v", score, m, r)
		}
	})
}

// FuzzComputeGrowthRate fuzzes the growth rate with random period counts.
func FuzzComputeGrowthRate(f *testing.F) {
	seeds := [][2]int{
		{7, 3},
		{0, 0},
		{4, 0},
		{0, 4},
		{1000000, 1},
	}
	for _, seed := range seeds {
		f.Add(seed[0], seed[1])
	}

	f.Fuzz(func(t *testing.T, current, previous int) {
		rate := computeGrowthRate(current, previous)

		if previous == 0 {
			want := 0.0
			if current > 0 {
				want = 100.0
			}
			if rate != want {
				t.Errorf("rate %v for (%d, %d), want %v", rate, current, previous, want)
			}
			return
		}
		// A non-negative count can shrink by at most the whole previous count.
		if previous > 0 && current >= 0 && rate < -100 {
			t.Errorf("rate %v below -100 for (%d, %d)", rate, current, previous)
		}
		if math.IsNaN(rate) {
			t.Errorf("rate is NaN for (%d, %d)", current, previous)
		}
	})
}
