package incidents

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{"id", "type", "status", "description", "latitude", "longitude", "address", "reporter_id", "attachment", "created_at", "updated_at"}

// WriteCSV writes one row per incident, in the order given, preceded by a header row.
func WriteCSV(w io.Writer, list []Incident) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, i := range list {
		attachment := ""
		if i.Attachment != nil {
			attachment = i.Attachment.Filename
		}
		row := []string{
			i.ID,
			i.Type.Label(),
			string(i.Status),
			csvText(i.Description),
			strconv.FormatFloat(i.Latitude, 'f', 6, 64),
			strconv.FormatFloat(i.Longitude, 'f', 6, 64),
			csvText(i.Address),
			i.ReporterID,
			csvText(attachment),
			formatTime(i.CreatedAt),
			formatTime(i.UpdatedAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", i.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvText stops spreadsheets from evaluating citizen-supplied text as a formula.
func csvText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
