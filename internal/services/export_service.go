package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alimgiray/coursescope/internal/stats"
)

const (
	summarySheet = "Summary"
	weeklySheet  = "Weekly"
	dateLayout   = "2006-01-02"
)

// ExportService renders statistics as an xlsx workbook: a summary sheet with one
// row per author and one column per category, and a weekly sheet with one column
// per week
type ExportService struct {
	statisticsService *StatisticsService
}

func NewExportService(statisticsService *StatisticsService) *ExportService {
	return &ExportService{statisticsService: statisticsService}
}

// ExportProject loads the query and writes the workbook to w
func (s *ExportService) ExportProject(ctx context.Context, q StatisticsQuery, w io.Writer) error {
	loaded, err := s.statisticsService.Load(ctx, q)
	if err != nil {
		return err
	}
	return s.WriteWorkbook(w, loaded, s.statisticsService.Groups(), q.Start, q.End)
}

// WriteWorkbook writes the workbook for already loaded statistics
func (s *ExportService) WriteWorkbook(w io.Writer, loaded stats.Statistics, groups *stats.Groups, start, end time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(weeklySheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	authors := loaded.DistinctAuthors()
	if err := writeSummary(f, header, loaded, authors, groups); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := writeWeekly(f, header, loaded, authors, start, end); err != nil {
		return fmt.Errorf("failed to write weekly sheet: %w", err)
	}

	return f.Write(w)
}

func writeSummary(f *excelize.File, header int, loaded stats.Statistics, authors []string, groups *stats.Groups) error {
	names := groups.Names()
	row := []interface{}{"Author", "Added", "Removed"}
	for _, name := range names {
		row = append(row, name)
	}
	if err := setRow(f, summarySheet, 1, row, header); err != nil {
		return err
	}

	byAuthor := loaded.GroupByAuthor(authors)
	for i, author := range authors {
		authorStats, _ := byAuthor.Get(author)
		total := authorStats.LinesTotal()
		byGroup := authorStats.GroupBy(groups)

		row := []interface{}{author, total.Added, total.Removed}
		for _, name := range names {
			groupStats, _ := byGroup.Get(name)
			row = append(row, changedLines(groupStats))
		}
		if err := setRow(f, summarySheet, i+2, row, 0); err != nil {
			return err
		}
	}

	total := loaded.LinesTotal()
	row = []interface{}{"Total", total.Added, total.Removed}
	byGroup := loaded.GroupBy(groups)
	for _, name := range names {
		groupStats, _ := byGroup.Get(name)
		row = append(row, changedLines(groupStats))
	}
	return setRow(f, summarySheet, len(authors)+2, row, header)
}

func writeWeekly(f *excelize.File, header int, loaded stats.Statistics, authors []string, start, end time.Time) error {
	if start.IsZero() {
		start = time.Now()
		if r, err := loaded.DateRange(); err == nil {
			start = r.Start
		}
	}
	weeks := loaded.GroupByWeek(start, end)

	row := []interface{}{"Author"}
	for i := 0; i < weeks.Len(); i++ {
		row = append(row, stats.WeekStart(start, i).Format(dateLayout))
	}
	if err := setRow(f, weeklySheet, 1, row, header); err != nil {
		return err
	}

	perWeek := stats.MapSequence(weeks, func(week stats.Statistics) *stats.Grouped[stats.Statistics] {
		return week.GroupByAuthor(authors)
	})
	for i, author := range authors {
		row := []interface{}{author}
		for _, week := range perWeek.Items() {
			authorStats, _ := week.Get(author)
			row = append(row, changedLines(authorStats))
		}
		if err := setRow(f, weeklySheet, i+2, row, 0); err != nil {
			return err
		}
	}
	return nil
}

// changedLines is added plus removed lines, zero for a missing value
func changedLines(s stats.Statistics) int {
	if s == nil {
		return 0
	}
	total := s.LinesTotal()
	return total.Added + total.Removed
}

func setRow(f *excelize.File, sheet string, rowNumber int, values []interface{}, style int) error {
	first, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(values), rowNumber)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
