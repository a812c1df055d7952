package engine

import (
	"fmt"

	"github.com/aws/aws-sdk-go/service/athena"
)

// headerFromRow reads column names from the header row. A missing cell
// falls back to a positional name.
func headerFromRow(row *athena.Row) []string {
	if row == nil {
		return nil
	}
	header := make([]string, len(row.Data))
	for i, cell := range row.Data {
		if cell != nil && cell.VarCharValue != nil {
			header[i] = *cell.VarCharValue
			continue
		}
		header[i] = fmt.Sprintf("col_%d", i)
	}
	return header
}

// recordFromRow flattens one data row into a record. Absent cells map to
// nil values; cells beyond the header width are dropped.
func recordFromRow(header []string, row *athena.Row) Record {
	record := make(Record, len(header))
	if row == nil {
		return record
	}
	for i, cell := range row.Data {
		if i >= len(header) {
			break
		}
		if cell == nil {
			record[header[i]] = nil
			continue
		}
		record[header[i]] = cell.VarCharValue
	}
	return record
}
