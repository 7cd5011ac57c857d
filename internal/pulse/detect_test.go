package pulse

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		smoothed []int
		vt       int
		want     []int
	}{
		{"nil", nil, 5, nil},
		{"two samples", []int{0, 100}, 5, nil},
		{"flat", []int{-5, -5, -5, -5, -5, -5, -5}, 5, nil},
		{"plateau after rise", []int{0, 0, 10, 10, 10, 0, 0}, 5, []int{0}},
		{"rise equal to threshold is ignored", []int{0, 0, 5, 5, 5}, 5, nil},
		{
			name:     "ride through long rise",
			smoothed: []int{0, 0, 10, 20, 30, 40, 30, 20, 10},
			vt:       5,
			// onset 0, ride through to index 5 (40), resume at 6
			want: []int{0},
		},
		{
			name:     "two separate rises",
			smoothed: []int{0, 0, 10, 10, 0, 0, 0, 10, 10, 0},
			vt:       5,
			want:     []int{0, 5},
		},
		{
			name:     "rise at the very end",
			smoothed: []int{0, 0, 0, 0, 0, 10},
			vt:       5,
			want:     []int{3},
		},
		{
			name:     "negative threshold flags flat data",
			smoothed: []int{0, 0, 0, 0, 0, 0, 0},
			vt:       -1,
			want:     []int{0, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.smoothed, tt.vt)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetect_OnsetsIncreaseAndAreSpaced(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(300)
		samples := make([]int, n)
		for i := range samples {
			samples[i] = rng.Intn(101) - 50
		}

		onsets := Detect(samples, rng.Intn(40))
		for i := 1; i < len(onsets); i++ {
			assert.Greater(t, onsets[i]-onsets[i-1], 2,
				"onsets %d and %d inside the ride-through region", onsets[i-1], onsets[i])
		}
		for _, o := range onsets {
			assert.Less(t, o, n-2)
		}
	}
}
