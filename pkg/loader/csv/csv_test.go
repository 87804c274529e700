package csv

import (
	"strings"
	"testing"
)

func TestParseEvents(t *testing.T) {
	doc := strings.Join([]string{
		"Date,Actor,Action,Target,Source",
		"2024-01-02,United States,sanction,Russia,wire",
		"2024-01-03,NATO,condemn,Russia,",
	}, "\n")

	records, err := ParseEvents(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Actor != "United States" || first.Target != "Russia" || first.Action != "sanction" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.ID == "" {
		t.Error("expected a generated record ID")
	}
	if first.Fields["Date"] != "2024-01-02" || first.Fields["Source"] != "wire" {
		t.Errorf("expected passthrough fields, got %v", first.Fields)
	}

	// Empty extra columns are not carried through.
	if _, ok := records[1].Fields["Source"]; ok {
		t.Errorf("expected the empty Source cell to be dropped, got %v", records[1].Fields)
	}
}

func TestParseEventsHeaderCaseInsensitive(t *testing.T) {
	doc := "ACTOR,target,Action\nRussia,Ukraine,invade\n"
	records, err := ParseEvents(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Actor != "Russia" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestParseEventsSkipsEmptyRows(t *testing.T) {
	doc := strings.Join([]string{
		"Actor,Target,Action",
		",,meet",
		"Russia,,invade",
		",Ukraine,defend",
		"Russia,Ukraine,invade",
	}, "\n")

	records, err := ParseEvents(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rows with only an actor or only a target still parse; the graph
	// builder decides whether they contribute.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestParseEventsShortRows(t *testing.T) {
	doc := strings.Join([]string{
		"Actor,Target,Action,Note",
		"Russia,Ukraine",
		"Russia,Ukraine,invade",
	}, "\n")

	records, err := ParseEvents(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected short rows to parse with empty cells, got %d records", len(records))
	}
	if records[0].Action != "" {
		t.Errorf("expected an empty action for the short row, got %q", records[0].Action)
	}
}

func TestParseEventsMissingColumns(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no action", "Actor,Target\nRussia,Ukraine\n"},
		{"no actor", "Target,Action\nUkraine,invade\n"},
		{"unrelated header", "a,b,c\n1,2,3\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseEvents(strings.NewReader(tc.doc)); err == nil {
				t.Error("expected an error for a header missing required columns")
			}
		})
	}
}

func TestParseEventsEmptyFile(t *testing.T) {
	if _, err := ParseEvents(strings.NewReader("")); err == nil {
		t.Error("expected an error for an empty file")
	}
}

func TestParseEventsQuotedFields(t *testing.T) {
	doc := "Actor,Target,Action\n\"NATO, EU\",Russia,sanction\n"
	records, err := ParseEvents(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Actor != "NATO, EU" {
		t.Errorf("expected the quoted multi-valued field intact, got %q", records[0].Actor)
	}
}
