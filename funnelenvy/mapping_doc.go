package funnelenvy

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
)

// MappingDocRow represents a single row in the translation documentation.
type MappingDocRow struct {
	Direction   string // "Outbound" (host to FunnelEnvy) or "Inbound" (FunnelEnvy to host)
	Source      string // host call or FunnelEnvy event
	Destination string // FunnelEnvy event or host track event
	Field       string // destination field, empty for pass-through rows
	SourcePath  string
	Notes       string
}

// MappingDocumentation contains all translation rows for the integration.
type MappingDocumentation struct {
	Integration string
	Rows        []MappingDocRow
}

// GenerateMappingDocumentation documents how host calls and FunnelEnvy events are translated.
func GenerateMappingDocumentation() MappingDocumentation {
	doc := MappingDocumentation{
		Integration: Name,
		Rows: []MappingDocRow{
			{Direction: "Outbound", Source: "identify", Destination: IdentifyEvent, Field: "individual", SourcePath: "traits", Notes: "Traits forwarded verbatim"},
			{Direction: "Outbound", Source: "group", Destination: GroupEvent, Field: "account", SourcePath: "traits", Notes: "Traits forwarded verbatim"},
			{Direction: "Outbound", Source: "track", Destination: "(event name)", SourcePath: "properties", Notes: "Event and properties forwarded verbatim"},
		},
	}

	inbound := []MappingDocRow{
		{Direction: "Inbound", Source: ActiveVariationEvent, Destination: VariationActivatedEvent, Field: "bvid", SourcePath: "(visitor id)"},
	}
	for field, path := range variationFieldMappings.Strings {
		inbound = append(inbound, createMappingDocRow(field, path))
	}
	for field, path := range variationFieldMappings.Values {
		inbound = append(inbound, createMappingDocRow(field, path))
	}
	sort.SliceStable(inbound, func(i, j int) bool {
		return inbound[i].Field < inbound[j].Field
	})
	doc.Rows = append(doc.Rows, inbound...)

	return doc
}

// createMappingDocRow creates an inbound row, splitting any modifier from the path.
// e.g. "backstage.activeCampaign|@campaignGroup" -> ("backstage.activeCampaign", "Uses @campaignGroup modifier")
func createMappingDocRow(field string, path string) MappingDocRow {
	row := MappingDocRow{
		Direction:   "Inbound",
		Source:      ActiveVariationEvent,
		Destination: VariationActivatedEvent,
		Field:       field,
	}
	parts := strings.Split(path, "|")
	row.SourcePath = parts[0]
	var notes []string
	for _, part := range parts[1:] {
		if strings.HasPrefix(part, "@") {
			notes = append(notes, fmt.Sprintf("Uses %s modifier", part))
		}
	}
	row.Notes = strings.Join(notes, " | ")
	return row
}

// FormatCSV formats the mapping documentation as CSV.
func (d MappingDocumentation) FormatCSV() (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{fmt.Sprintf("# Integration: %s", d.Integration)}); err != nil {
		return "", err
	}
	if err := writer.Write([]string{"Direction", "Source", "Destination", "Field", "Source Path", "Notes"}); err != nil {
		return "", err
	}
	for _, row := range d.Rows {
		if err := writer.Write([]string{row.Direction, row.Source, row.Destination, row.Field, row.SourcePath, row.Notes}); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}
