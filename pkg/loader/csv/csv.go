// Package csv parses uploaded event CSV files into event records. It is
// the upstream parser boundary: the graph core only ever sees the records
// it produces.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/actorgraph/actorgraph/pkg/common"
	"github.com/actorgraph/actorgraph/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Required column names, matched case-insensitively against the header row.
const (
	columnActor  = "actor"
	columnTarget = "target"
	columnAction = "action"
)

// ParseEvents reads a CSV document and returns one EventRecord per data
// row. The header row must name Actor, Target and Action columns; every
// other column is carried through opaquely in the record's Fields map.
// Rows with neither an actor nor a target are skipped with a debug log so
// a partially usable file still yields a graph.
func ParseEvents(r io.Reader) ([]*common.EventRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []*common.EventRecord
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		rec, ok := rowToRecord(row, header, cols)
		if !ok {
			skipped++
			continue
		}

		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate record ID: %w", err)
		}
		rec.ID = id
		records = append(records, rec)
	}

	if skipped > 0 {
		logger.Debug("[CSV] Skipped rows without actor and target", "skipped", skipped, "accepted", len(records))
	}

	return records, nil
}

type columnMap struct {
	actor  int
	target int
	action int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{actor: -1, target: -1, action: -1}
	for i, field := range header {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case columnActor:
			if cols.actor == -1 {
				cols.actor = i
			}
		case columnTarget:
			if cols.target == -1 {
				cols.target = i
			}
		case columnAction:
			if cols.action == -1 {
				cols.action = i
			}
		}
	}

	if cols.actor == -1 || cols.target == -1 || cols.action == -1 {
		return cols, fmt.Errorf("CSV header is missing required columns (need Actor, Target, Action), got: %s",
			strings.Join(header, ", "))
	}
	return cols, nil
}

func rowToRecord(row []string, header []string, cols columnMap) (*common.EventRecord, bool) {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := &common.EventRecord{
		Actor:  field(cols.actor),
		Target: field(cols.target),
		Action: field(cols.action),
	}
	if rec.Actor == "" && rec.Target == "" {
		return nil, false
	}

	for i, value := range row {
		if i == cols.actor || i == cols.target || i == cols.action {
			continue
		}
		if i >= len(header) {
			continue
		}
		key := strings.TrimSpace(header[i])
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]string)
		}
		rec.Fields[key] = value
	}

	return rec, true
}
