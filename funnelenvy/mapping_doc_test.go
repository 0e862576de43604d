package funnelenvy

import (
	"strings"
	"testing"
)

func TestGenerateMappingDocumentation(t *testing.T) {
	doc := GenerateMappingDocumentation()
	var fields []string
	for _, row := range doc.Rows {
		if row.Direction == "Inbound" {
			fields = append(fields, row.Field)
		}
	}
	expected := "bvid,campaignGroup,campaignId,campaignName,variationId,variationName"
	if result := strings.Join(fields, ","); result != expected {
		t.Errorf("Expected inbound fields: %s but have: %s", expected, result)
	}

	result, err := doc.FormatCSV()
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if lines[0] != "# Integration: FunnelEnvy" {
		t.Errorf("Expected integration comment but have: %s", lines[0])
	}
	if len(lines) != 2+len(doc.Rows) {
		t.Errorf("Expected %d lines but have: %d", 2+len(doc.Rows), len(lines))
	}
	if !strings.Contains(result, "Inbound,backstage.activeVariation,Variation Activated,campaignGroup,backstage.activeCampaign,Uses @campaignGroup modifier") {
		t.Errorf("Expected campaignGroup row in:\n%s", result)
	}
	t.Logf("result:\n%s", result)
}
