package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/captains-log/internal/model"
)

const (
	exportDateLayout = "Monday, January 2, 2006"
	exportTimeLayout = "3:04:05 PM"
)

// ExportFileName returns the export file name for now.
func ExportFileName(now time.Time) string {
	return "captainslog-" + now.Format("20060102-1504") + ".txt"
}

// FormatExport renders results as a plain-text log entry dated now.
// Times are rendered in now's location.
func FormatExport(results []model.TranscriptionResult, now time.Time) (string, error) {
	if len(results) == 0 {
		return "", ErrEmpty
	}
	loc := now.Location()
	first := results[0].Time().In(loc).Format(exportTimeLayout)
	last := results[len(results)-1].Time().In(loc).Format(exportTimeLayout)

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	return fmt.Sprintf("Date: %s\n\nTimecodes: %s - %s\n\n%s",
		now.Format(exportDateLayout), first, last, strings.Join(texts, "\n")), nil
}

// Export renders the current transcript and its file name.
func (c *Controller) Export(now time.Time) (filename, content string, err error) {
	content, err = FormatExport(c.Results(), now)
	if err != nil {
		return "", "", err
	}
	return ExportFileName(now), content, nil
}
