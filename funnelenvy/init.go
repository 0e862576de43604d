package funnelenvy

import (
	"fmt"

	"github.com/tidwall/gjson"
)

const (
	HoldbackGroup  = "holdback"
	PredictedGroup = "predicted"
)

func init() {

	// campaignGroup reports which group a visitor was placed in for an active campaign.
	// isInHoldback follows JavaScript truthiness, as the Backstage client sets it,
	// so absent, null, false, 0 and "" all mean the visitor was predicted.
	gjson.AddModifier("campaignGroup", func(json, arg string) string {
		campaign := gjson.Parse(json)
		if campaign.IsObject() && truthy(campaign.Get("isInHoldback")) {
			return fmt.Sprintf(`"%s"`, HoldbackGroup)
		}
		return fmt.Sprintf(`"%s"`, PredictedGroup)
	})

}

func truthy(result gjson.Result) bool {
	switch result.Type {
	case gjson.True:
		return true
	case gjson.String:
		return result.Str != ""
	case gjson.Number:
		return result.Num != 0
	case gjson.JSON:
		return true
	default: // Null, False or missing
		return false
	}
}
