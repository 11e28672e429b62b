package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/coursescope/internal/services"
)

const (
	dateLayout   = "2006-01-02"
	xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Statistics views, from the coarsest to the finest
const (
	ViewTotals           = "totals"
	ViewAuthors          = "authors"
	ViewCategories       = "categories"
	ViewAuthorCategories = "author-categories"
	ViewWeekly           = "weekly"
)

type StatisticsHandler struct {
	statisticsService *services.StatisticsService
	exportService     *services.ExportService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService, exportService *services.ExportService) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
		exportService:     exportService,
	}
}

// GetStatistics returns one view of a project's line statistics.
// Query: view, repos, authors (comma separated or repeated), start and end
// (YYYY-MM-DD, end inclusive).
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	q, err := parseStatisticsQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	view := c.DefaultQuery("view", ViewTotals)
	ctx := c.Request.Context()

	var data interface{}
	switch view {
	case ViewTotals:
		data, err = h.statisticsService.Totals(ctx, q)
	case ViewAuthors:
		data, err = h.statisticsService.ByAuthor(ctx, q)
	case ViewCategories:
		data, err = h.statisticsService.ByCategory(ctx, q)
	case ViewAuthorCategories:
		data, err = h.statisticsService.ByAuthorByCategory(ctx, q)
	case ViewWeekly:
		data, err = h.statisticsService.WeeklyByAuthorByCategory(ctx, q)
	default:
		err = fmt.Errorf("%w: unknown view %q", errBadRequest, view)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"view":    view,
		"groups":  h.statisticsService.Groups().Names(),
		"data":    data,
	})
}

// ExportStatistics downloads the statistics as an xlsx workbook
func (h *StatisticsHandler) ExportStatistics(c *gin.Context) {
	q, err := parseStatisticsQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportProject(c.Request.Context(), q, &buf); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("statistics-%s.xlsx", time.Now().UTC().Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxMimeType, buf.Bytes())
}

func parseStatisticsQuery(c *gin.Context) (services.StatisticsQuery, error) {
	q := services.StatisticsQuery{
		ProjectID:     c.Param("id"),
		RepositoryIDs: queryList(c, "repos"),
		Authors:       queryList(c, "authors"),
	}

	var err error
	if q.Start, err = parseDate(c.Query("start")); err != nil {
		return q, err
	}
	if q.End, err = parseDate(c.Query("end")); err != nil {
		return q, err
	}
	if !q.End.IsZero() {
		q.End = q.End.AddDate(0, 0, 1)
	}
	return q, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dates must look like %s, got %q", errBadRequest, dateLayout, value)
	}
	return parsed, nil
}

// queryList accepts both ?k=a,b and ?k=a&k=b
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, value := range c.QueryArray(key) {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
