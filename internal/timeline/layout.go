// Package timeline computes Gantt chart geometry from task date ranges.
package timeline

import (
	"math"
	"time"

	domain "github.com/example/taskflow/domain/taskflow"
)

const (
	MinPixelWidth = 600
	PixelsPerDay  = 60
	BarGap        = 6
	MinBarWidth   = 12
	LabelLength   = 18
	RowHeight     = 28

	day = 24 * time.Hour
)

// Item is one row of the chart before layout.
type Item struct {
	TaskID    string
	Title     string
	StartDate *string
	DueDate   *string
	Done      bool
}

// ItemsFromTasks converts tasks to layout items, keeping order.
func ItemsFromTasks(tasks []domain.Task) []Item {
	items := make([]Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{
			TaskID:    t.ID,
			Title:     t.Title,
			StartDate: t.StartDate,
			DueDate:   t.DueDate,
			Done:      t.Done(),
		}
	}
	return items
}

// Bar is the geometry of one task row. X and Width are relative to the
// first day column.
type Bar struct {
	Row    int     `json:"row"`
	TaskID string  `json:"taskId"`
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
	Label  string  `json:"label"`
	Done   bool    `json:"done"`
	Start  string  `json:"start"`
	End    string  `json:"end"`
}

// GridLine marks the left edge of a day column.
type GridLine struct {
	Day  int     `json:"day"`
	X    float64 `json:"x"`
	Date string  `json:"date"`
}

// Chart is the complete layout. A chart with TotalDays == 0 has no rows.
type Chart struct {
	TotalDays  int        `json:"totalDays"`
	PixelWidth float64    `json:"pixelWidth"`
	DayWidth   float64    `json:"dayWidth"`
	RowHeight  int        `json:"rowHeight"`
	MinDate    string     `json:"minDate,omitempty"`
	MaxDate    string     `json:"maxDate,omitempty"`
	Bars       []Bar      `json:"bars"`
	Grid       []GridLine `json:"grid"`
}

// Empty reports whether the chart has no rows.
func (c Chart) Empty() bool {
	return len(c.Bars) == 0
}

type resolved struct {
	item       Item
	start, end time.Time
}

// Layout places items on a day grid. Each item starts at its start date,
// falling back to its due date and then today; it ends at its due date or
// its start. Rows follow input order.
func Layout(items []Item, today string) (Chart, error) {
	chart := Chart{RowHeight: RowHeight, Bars: []Bar{}, Grid: []GridLine{}}
	if len(items) == 0 {
		return chart, nil
	}

	rows := make([]resolved, len(items))
	for i, it := range items {
		r, err := resolve(it, today)
		if err != nil {
			return Chart{}, err
		}
		rows[i] = r
	}

	minStart, maxEnd := rows[0].start, rows[0].end
	for _, r := range rows[1:] {
		if r.start.Before(minStart) {
			minStart = r.start
		}
		if r.end.After(maxEnd) {
			maxEnd = r.end
		}
	}

	totalDays := max(1, int(math.Round(float64(maxEnd.Sub(minStart))/float64(day)))+1)
	pixelWidth := float64(max(MinPixelWidth, totalDays*PixelsPerDay))
	dayWidth := pixelWidth / float64(totalDays)

	chart.TotalDays = totalDays
	chart.PixelWidth = pixelWidth
	chart.DayWidth = dayWidth
	chart.MinDate = domain.FormatDate(minStart)
	chart.MaxDate = domain.FormatDate(maxEnd)

	for d := 0; d < totalDays; d++ {
		chart.Grid = append(chart.Grid, GridLine{
			Day:  d,
			X:    float64(d) * dayWidth,
			Date: domain.FormatDate(minStart.Add(time.Duration(d) * day)),
		})
	}

	for i, r := range rows {
		offset := r.start.Sub(minStart).Hours() / 24
		span := max(1, r.end.Sub(r.start).Hours()/24+1)
		chart.Bars = append(chart.Bars, Bar{
			Row:    i,
			TaskID: r.item.TaskID,
			X:      offset * dayWidth,
			Width:  max(MinBarWidth, span*dayWidth-BarGap),
			Label:  truncate(r.item.Title, LabelLength),
			Done:   r.item.Done,
			Start:  domain.FormatDate(r.start),
			End:    domain.FormatDate(r.end),
		})
	}
	return chart, nil
}

func resolve(it Item, today string) (resolved, error) {
	startStr := today
	switch {
	case it.StartDate != nil && *it.StartDate != "":
		startStr = *it.StartDate
	case it.DueDate != nil && *it.DueDate != "":
		startStr = *it.DueDate
	}
	endStr := startStr
	if it.DueDate != nil && *it.DueDate != "" {
		endStr = *it.DueDate
	}

	start, err := domain.ParseDate(startStr)
	if err != nil {
		return resolved{}, err
	}
	end, err := domain.ParseDate(endStr)
	if err != nil {
		return resolved{}, err
	}
	return resolved{item: it, start: start, end: end}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
