package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMilestoneProgress(t *testing.T) {
	mk := func(completed ...bool) []Milestone {
		ms := make([]Milestone, len(completed))
		for i, c := range completed {
			ms[i] = Milestone{IsCompleted: c}
		}
		return ms
	}

	tests := []struct {
		name       string
		milestones []Milestone
		want       int
	}{
		{"no milestones", nil, 0},
		{"empty slice", []Milestone{}, 0},
		{"none completed", mk(false, false, false), 0},
		{"all completed", mk(true, true), 100},
		{"half completed", mk(true, false), 50},
		{"one of three rounds to 33", mk(true, false, false), 33},
		{"two of three rounds to 67", mk(true, true, false), 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MilestoneProgress(tt.milestones))
		})
	}
}
