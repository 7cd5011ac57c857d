package pulse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestIntegrate(t *testing.T) {
	raw := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		name   string
		onsets []int
		width  int
		want   []Area
	}{
		{"no onsets", nil, 3, nil},
		{"last onset limited by width", []int{5}, 3, []Area{{Onset: 5, Area: 6 + 7 + 8}}},
		{"last onset limited by data end", []int{7}, 10, []Area{{Onset: 7, Area: 8 + 9 + 10}}},
		{
			name:   "next onset closes the window",
			onsets: []int{0, 2},
			width:  5,
			want:   []Area{{Onset: 0, Area: 1 + 2}, {Onset: 2, Area: 3 + 4 + 5 + 6 + 7}},
		},
		{
			name:   "width closes the window before next onset",
			onsets: []int{0, 6},
			width:  2,
			want:   []Area{{Onset: 0, Area: 1 + 2}, {Onset: 6, Area: 7 + 8}},
		},
		{"zero width", []int{0, 4}, 0, []Area{{Onset: 0}, {Onset: 4}}},
		{"negative width", []int{3}, -2, []Area{{Onset: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Integrate(raw, tt.onsets, tt.width)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Integrate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIntegrate_UnconstrainedWindowIsWidthLong(t *testing.T) {
	raw := make([]int, 100)
	for i := range raw {
		raw[i] = 1
	}

	areas := Integrate(raw, []int{10, 50, 90}, 7)
	assert.Equal(t, 7, areas[0].Area)
	assert.Equal(t, 7, areas[1].Area)
	// the last window is cut by the end of data
	assert.Equal(t, 7, areas[2].Area)

	areas = Integrate(raw, []int{95}, 7)
	assert.Equal(t, 5, areas[0].Area)
}
