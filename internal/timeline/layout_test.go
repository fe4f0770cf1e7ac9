package timeline

import (
	"errors"
	"strings"
	"testing"

	domain "github.com/example/taskflow/domain/taskflow"
)

const today = "2024-01-10"

func TestLayoutSingleTask(t *testing.T) {
	items := []Item{{TaskID: "t1", Title: "Flyer", StartDate: domain.Ptr("2024-01-01"), DueDate: domain.Ptr("2024-01-03")}}

	chart, err := Layout(items, today)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if chart.TotalDays != 3 {
		t.Errorf("TotalDays = %d, want 3", chart.TotalDays)
	}
	if chart.PixelWidth != 600 || chart.DayWidth != 200 {
		t.Errorf("PixelWidth = %v, DayWidth = %v", chart.PixelWidth, chart.DayWidth)
	}

	bar := chart.Bars[0]
	if bar.X != 0 {
		t.Errorf("X = %v, want 0", bar.X)
	}
	if want := 3*chart.DayWidth - BarGap; bar.Width != want {
		t.Errorf("Width = %v, want %v", bar.Width, want)
	}
	if len(chart.Grid) != 3 || chart.Grid[2].Date != "2024-01-03" {
		t.Errorf("grid = %+v", chart.Grid)
	}
}

func TestLayoutResolution(t *testing.T) {
	items := []Item{
		{TaskID: "due-only", Title: "due only", DueDate: domain.Ptr("2024-01-12")},
		{TaskID: "undated", Title: "undated"},
		{TaskID: "start-only", Title: "start only", StartDate: domain.Ptr("2024-01-08")},
	}

	chart, err := Layout(items, today)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if chart.MinDate != "2024-01-08" || chart.MaxDate != "2024-01-12" {
		t.Errorf("range = %s..%s", chart.MinDate, chart.MaxDate)
	}
	if chart.TotalDays != 5 {
		t.Errorf("TotalDays = %d, want 5", chart.TotalDays)
	}

	want := map[string][2]string{
		"due-only":   {"2024-01-12", "2024-01-12"},
		"undated":    {today, today},
		"start-only": {"2024-01-08", "2024-01-08"},
	}
	for i, bar := range chart.Bars {
		if bar.Row != i {
			t.Errorf("row %d has Row=%d", i, bar.Row)
		}
		w := want[bar.TaskID]
		if bar.Start != w[0] || bar.End != w[1] {
			t.Errorf("%s: %s..%s, want %s..%s", bar.TaskID, bar.Start, bar.End, w[0], w[1])
		}
	}

	// 5 days * 120px; undated sits at day offset 2.
	if chart.Bars[1].X != 2*chart.DayWidth {
		t.Errorf("undated X = %v", chart.Bars[1].X)
	}
}

func TestLayoutWideAndNarrow(t *testing.T) {
	items := []Item{
		{Title: "long", StartDate: domain.Ptr("2024-01-01"), DueDate: domain.Ptr("2024-01-20")},
		{Title: "inverted", StartDate: domain.Ptr("2024-01-05"), DueDate: domain.Ptr("2024-01-02")},
	}

	chart, err := Layout(items, today)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if chart.TotalDays != 20 || chart.PixelWidth != 1200 || chart.DayWidth != 60 {
		t.Errorf("chart = %d days, %v px, %v per day", chart.TotalDays, chart.PixelWidth, chart.DayWidth)
	}
	if got := chart.Bars[1].Width; got != 60-BarGap {
		t.Errorf("inverted range should span one day, width = %v", got)
	}
}

func TestLayoutMinimumBarWidth(t *testing.T) {
	items := []Item{{Title: "a", DueDate: domain.Ptr("2024-01-01")}, {Title: "b", DueDate: domain.Ptr("2024-12-31")}}
	chart, err := Layout(items, today)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	for _, bar := range chart.Bars {
		if bar.Width < MinBarWidth {
			t.Errorf("bar width %v below minimum", bar.Width)
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	chart, err := Layout(nil, today)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if !chart.Empty() || chart.TotalDays != 0 {
		t.Errorf("expected empty chart, got %+v", chart)
	}
}

func TestLayoutInvalidDate(t *testing.T) {
	_, err := Layout([]Item{{Title: "x", DueDate: domain.Ptr("01/02/2024")}}, today)
	if !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestLabelTruncation(t *testing.T) {
	items := []Item{{Title: "Prospekt KW40 Abstimmung Möbelhaus", DueDate: domain.Ptr("2024-01-01")}}
	chart, err := Layout(items, today)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if got := chart.Bars[0].Label; got != "Prospekt KW40 Abst" {
		t.Errorf("Label = %q", got)
	}
}

func TestItemsFromTasks(t *testing.T) {
	tasks := []domain.Task{
		{ID: "a", Title: "A", CompletedAt: domain.Ptr(int64(1))},
		{ID: "b", Title: "B", StartDate: domain.Ptr("2024-01-01")},
	}
	items := ItemsFromTasks(tasks)
	if len(items) != 2 || !items[0].Done || items[1].Done || *items[1].StartDate != "2024-01-01" {
		t.Errorf("items = %+v", items)
	}
}

func TestSVG(t *testing.T) {
	items := []Item{
		{Title: "Done <x>", DueDate: domain.Ptr("2024-01-01"), Done: true},
		{Title: "Open", DueDate: domain.Ptr("2024-01-02")},
	}
	chart, err := Layout(items, today)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	svg := chart.SVG()
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %s", svg)
	}
	if !strings.Contains(svg, `viewBox="0 0 700 116"`) {
		t.Errorf("unexpected viewBox in %s", svg)
	}
	if !strings.Contains(svg, colorDone) || !strings.Contains(svg, colorOpen) {
		t.Error("expected both bar colours")
	}
	if !strings.Contains(svg, "Done &lt;x&gt;") {
		t.Error("labels must be escaped")
	}
	if strings.Count(svg, "<rect") != 2 || strings.Count(svg, "<line") != 2 {
		t.Errorf("unexpected element counts in %s", svg)
	}
}
