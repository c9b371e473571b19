package services

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
)

// statusCounts tallies records by status.
type statusCounts struct {
	total   int
	present int
	absent  int
	late    int
}

func countByStatus(records []*models.AttendanceRecord) statusCounts {
	var c statusCounts
	for _, r := range records {
		c.total++
		switch r.Status {
		case models.StatusPresent:
			c.present++
		case models.StatusAbsent:
			c.absent++
		case models.StatusLate:
			c.late++
		}
	}
	return c
}

// percentage computes (present + lateWeight*late) / total * 100,
// clamped to [0, 100]. Returns nil when total is zero: with no recorded
// sessions the percentage is undefined, not zero.
func percentage(c statusCounts, lateWeight float64) *float64 {
	if c.total == 0 {
		return nil
	}
	pct := (float64(c.present) + lateWeight*float64(c.late)) / float64(c.total) * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return &pct
}

// buildSummary aggregates records into a summary for one student scope.
func buildSummary(studentID uint, courseID *uint, rng repositories.DateRange, records []*models.AttendanceRecord, lateWeight float64) *AttendanceSummary {
	c := countByStatus(records)
	return &AttendanceSummary{
		StudentID:  studentID,
		CourseID:   courseID,
		Total:      c.total,
		Present:    c.present,
		Absent:     c.absent,
		Late:       c.late,
		Percentage: percentage(c, lateWeight),
		Range:      rng,
	}
}

// bucketStart truncates a date to its bucket boundary. Weekly buckets
// start on Monday.
func bucketStart(date time.Time, granularity TrendGranularity) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if granularity == GranularityDaily {
		return day
	}
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func bucketLabel(start time.Time, granularity TrendGranularity) string {
	if granularity == GranularityDaily {
		return start.Format("2006-01-02")
	}
	year, week := start.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// buildTrend groups records into contiguous buckets ordered oldest
// first. Buckets inside the span with no records are kept with a nil
// percentage so gaps stay visible in the series.
func buildTrend(records []*models.AttendanceRecord, granularity TrendGranularity, rng repositories.DateRange, lateWeight float64) []TrendBucket {
	if len(records) == 0 && (rng.From == nil || rng.To == nil) {
		return []TrendBucket{}
	}

	// Span: explicit range bounds win; otherwise derive from the data.
	// Records arrive ordered by date ascending.
	first := rng.From
	last := rng.To
	if first == nil {
		first = &records[0].Date
	}
	if last == nil {
		last = &records[len(records)-1].Date
	}

	start := bucketStart(*first, granularity)
	end := bucketStart(*last, granularity)
	if end.Before(start) {
		return []TrendBucket{}
	}

	step := 1
	if granularity == GranularityWeekly {
		step = 7
	}

	grouped := make(map[time.Time][]*models.AttendanceRecord)
	for _, r := range records {
		key := bucketStart(r.Date, granularity)
		grouped[key] = append(grouped[key], r)
	}

	var buckets []TrendBucket
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, step) {
		c := countByStatus(grouped[cursor])
		buckets = append(buckets, TrendBucket{
			Label:      bucketLabel(cursor, granularity),
			Start:      cursor,
			Total:      c.total,
			Percentage: percentage(c, lateWeight),
		})
	}
	return buckets
}
