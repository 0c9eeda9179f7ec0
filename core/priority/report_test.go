package priority

import (
	"testing"
	"time"
)

func item(name string, status Status, score float64) Item {
	return Item{Course: "Math", Assignment: name, Points: score, Status: status, Score: score}
}

func TestNewReport(t *testing.T) {
	items := []Item{
		item("a", StatusOverdue, 10),
		item("b", StatusUpcoming, 30),
		item("c", StatusUpcoming, 10),
		item("d", StatusOverdue, 45),
		item("e", StatusUpcoming, 10),
	}

	tests := []struct {
		name         string
		limit        int
		wantTop      []string
		wantUpcoming int
		wantOverdue  int
	}{
		{name: "default limit", limit: DefaultLimit, wantTop: []string{"d", "b", "a", "c", "e"}, wantUpcoming: 3, wantOverdue: 2},
		{name: "truncated", limit: 2, wantTop: []string{"d", "b"}, wantUpcoming: 3, wantOverdue: 2},
		{name: "no cap", limit: 0, wantTop: []string{"d", "b", "a", "c", "e"}, wantUpcoming: 3, wantOverdue: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := NewReport("Alice", items, tt.limit)
			top := rep.Top()
			if len(top) != len(tt.wantTop) {
				t.Fatalf("Top() len = %d, want %d", len(top), len(tt.wantTop))
			}
			for i, it := range top {
				if it.Assignment != tt.wantTop[i] {
					t.Errorf("Top()[%d] = %s, want %s", i, it.Assignment, tt.wantTop[i])
				}
				if i > 0 && top[i-1].Score < it.Score {
					t.Errorf("Top() not sorted at %d: %v < %v", i, top[i-1].Score, it.Score)
				}
			}
			if rep.Upcoming != tt.wantUpcoming || rep.Overdue != tt.wantOverdue {
				t.Errorf("NewReport() counts = %d/%d, want %d/%d", rep.Upcoming, rep.Overdue, tt.wantUpcoming, tt.wantOverdue)
			}
		})
	}

	if items[0].Assignment != "a" {
		t.Error("NewReport() reordered its input")
	}
}

func TestNewReport_empty(t *testing.T) {
	rep := NewReport("Alice", nil, DefaultLimit)
	if !rep.IsEmpty() {
		t.Error("IsEmpty() = false for no items")
	}
	if len(rep.Top()) != 0 {
		t.Errorf("Top() = %v, want none", rep.Top())
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		points   float64
		weight   float64
		weighted bool
		status   Status
		want     float64
	}{
		{name: "upcoming unweighted", points: 20, status: StatusUpcoming, want: 30},
		{name: "overdue weighted", points: 40, weight: 25, weighted: true, status: StatusOverdue, want: 10},
		{name: "weighted course, zero weight", points: 40, weight: 0, weighted: true, status: StatusOverdue, want: 40},
		{name: "unweighted course with weight", points: 40, weight: 25, status: StatusOverdue, want: 40},
		{name: "rounding", points: 10, weight: 33.3333, weighted: true, status: StatusUpcoming, want: 5},
		{name: "rounding half", points: 1.005, status: StatusOverdue, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := score(baseScore(tt.points, tt.weight, tt.weighted), tt.status); got != tt.want {
				t.Errorf("score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	if got := statusAt(now.Add(-time.Nanosecond), now); got != StatusOverdue {
		t.Errorf("statusAt(past) = %s, want %s", got, StatusOverdue)
	}
	if got := statusAt(now, now); got != StatusUpcoming {
		t.Errorf("statusAt(now) = %s, want %s", got, StatusUpcoming)
	}
}
