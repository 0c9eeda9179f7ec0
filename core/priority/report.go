package priority

import "sort"

// Report is the sorted priority list. Counts always cover every item, not only Top().
type Report struct {
	Student  string
	Items    []Item // sorted, untruncated
	Limit    int    // <= 0: no cap
	Upcoming int
	Overdue  int
}

// NewReport sorts items by descending score. Equal scores keep their input order.
func NewReport(student string, items []Item, limit int) Report {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	rep := Report{Student: student, Items: sorted, Limit: limit}
	for _, it := range sorted {
		switch it.Status {
		case StatusUpcoming:
			rep.Upcoming++
		case StatusOverdue:
			rep.Overdue++
		}
	}
	return rep
}

func (rep Report) Top() []Item {
	if rep.Limit <= 0 || len(rep.Items) <= rep.Limit {
		return rep.Items
	}
	return rep.Items[:rep.Limit]
}

func (rep Report) IsEmpty() bool {
	return len(rep.Items) == 0
}
