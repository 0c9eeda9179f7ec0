package priority

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/color"
	"github.com/pkg/errors"
	"github.com/volatiletech/strmangle"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"

	NothingActionable = "Nothing actionable. You're all caught up!"

	// DueLayout formats due dates in every text report.
	DueLayout = "Mon Jan 2, 3:04 PM"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// Renderer writes a Report. Styling (color + emoji) is meant for terminals only.
type Renderer struct {
	Color    *color.Color
	Emoji    bool
	Location *time.Location
}

func NewRenderer(styled bool) *Renderer {
	c := color.New()
	if styled {
		c.Enable()
	} else {
		c.Disable()
	}
	return &Renderer{Color: c, Emoji: styled, Location: time.Local}
}

func (r *Renderer) Render(w io.Writer, rep Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(newReportDoc(rep)), "encoding json report")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newReportDoc(rep)); err != nil {
			return errors.Wrap(err, "encoding yaml report")
		}
		return errors.Wrap(enc.Close(), "encoding yaml report")
	default:
		return r.renderText(w, rep)
	}
}

func (r *Renderer) renderText(w io.Writer, rep Report) error {
	if rep.IsEmpty() {
		_, err := fmt.Fprintln(w, r.icon("🎉")+NothingActionable)
		return err
	}

	b := new(strings.Builder)
	fmt.Fprintf(b, "%s%s\n\n", r.icon("🎯"), r.Color.Bold("Priorities for "+rep.Student))
	for i, it := range rep.Top() {
		fmt.Fprintf(b, "%2d. %s · %s\n", i+1, r.Color.Cyan(it.Course), r.Color.Bold(it.Assignment))
		fmt.Fprintf(b, "    %s\n", r.statusLine(it))
		points := formatNumber(it.Points) + " pts"
		if it.ShowsWeight() {
			points += fmt.Sprintf(" (%s%% of grade)", formatNumber(it.GroupWeight))
		}
		fmt.Fprintf(b, "    %s · score %s\n", points, r.Color.Bold(fmt.Sprintf("%.2f", it.Score)))
	}

	shown := fmt.Sprintf("showing top %d", rep.Limit)
	if rep.Limit <= 0 {
		shown = fmt.Sprintf("showing all %d", len(rep.Items))
	}
	fmt.Fprintf(b, "\n%s%d upcoming · %d overdue · %s\n", r.icon("📊"), rep.Upcoming, rep.Overdue, shown)

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) statusLine(it Item) string {
	label := strmangle.TitleCase(string(it.Status))
	due := it.DueAt.In(r.location()).Format(DueLayout)
	if it.Status == StatusOverdue {
		return r.icon("⚠️ ") + r.Color.Red(label+" · was due "+due)
	}
	return r.icon("📅") + r.Color.Green(label+" · due "+due)
}

func (r *Renderer) icon(emoji string) string {
	if !r.Emoji {
		return ""
	}
	return emoji + " "
}

func (r *Renderer) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type itemDoc struct {
	Rank        int       `json:"rank" yaml:"rank"`
	Course      string    `json:"course" yaml:"course"`
	Assignment  string    `json:"assignment" yaml:"assignment"`
	Status      Status    `json:"status" yaml:"status"`
	DueAt       time.Time `json:"due_at" yaml:"due_at"`
	Points      float64   `json:"points" yaml:"points"`
	GroupWeight float64   `json:"group_weight" yaml:"group_weight"`
	Weighted    bool      `json:"weighted" yaml:"weighted"`
	Score       float64   `json:"score" yaml:"score"`
}

type reportDoc struct {
	Student  string    `json:"student" yaml:"student"`
	Items    []itemDoc `json:"items" yaml:"items"`
	Upcoming int       `json:"upcoming" yaml:"upcoming"`
	Overdue  int       `json:"overdue" yaml:"overdue"`
	Limit    int       `json:"limit" yaml:"limit"`
}

func newReportDoc(rep Report) reportDoc {
	top := rep.Top()
	doc := reportDoc{
		Student:  rep.Student,
		Items:    make([]itemDoc, 0, len(top)),
		Upcoming: rep.Upcoming,
		Overdue:  rep.Overdue,
		Limit:    rep.Limit,
	}
	for i, it := range top {
		doc.Items = append(doc.Items, itemDoc{
			Rank:        i + 1,
			Course:      it.Course,
			Assignment:  it.Assignment,
			Status:      it.Status,
			DueAt:       it.DueAt,
			Points:      it.Points,
			GroupWeight: it.GroupWeight,
			Weighted:    it.Weighted,
			Score:       it.Score,
		})
	}
	return doc
}
