package priority

import (
	"math"
	"time"
)

type Status string

const (
	StatusOverdue  Status = "overdue"
	StatusUpcoming Status = "upcoming"

	// applied to upcoming items only
	upcomingMultiplier = 1.5

	DefaultLimit = 10
)

// Item is one actionable assignment. Built per run, never persisted.
type Item struct {
	Course      string
	Assignment  string
	Points      float64
	GroupWeight float64
	DueAt       time.Time
	Status      Status
	Score       float64
	Weighted    bool // the course applies assignment group weights
}

// ShowsWeight is true when the group weight is worth displaying next to the points.
func (it Item) ShowsWeight() bool {
	return it.Weighted && it.GroupWeight != 0
}

func statusAt(due, now time.Time) Status {
	if due.Before(now) {
		return StatusOverdue
	}
	return StatusUpcoming
}

// baseScore weighs points by the group weight only when the course applies weights.
func baseScore(points, groupWeight float64, weighted bool) float64 {
	if weighted && groupWeight > 0 {
		return points * (groupWeight / 100)
	}
	return points
}

func score(base float64, status Status) float64 {
	if status == StatusUpcoming {
		base *= upcomingMultiplier
	}
	return round2(base)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
