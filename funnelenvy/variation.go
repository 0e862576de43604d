package funnelenvy

import "log"

var variationFieldMappings = FieldMappings{
	Required: []string{
		"backstage.activeCampaign",
		"backstage.activeVariation",
	},
	Strings: map[string]string{
		"campaignGroup": "backstage.activeCampaign|@campaignGroup",
	},
	// TODO: map variationId from the variation slug once Backstage adds it to the data layer model
	Values: map[string]string{
		"campaignId":    "backstage.activeCampaign.slug",
		"campaignName":  "backstage.activeCampaign.name",
		"variationId":   "backstage.activeVariation.variationId",
		"variationName": "backstage.activeVariation.name",
	},
}

// SendActiveVariation tracks a "Variation Activated" event in the host for an
// active variation message. Any other message, or none, is ignored.
// A model without an active campaign or variation is an error and nothing is tracked.
func (f *Integration) SendActiveVariation(model Model, message *Message) error {
	if message == nil || message.Event != ActiveVariationEvent {
		return nil
	}

	client := f.currentClient()
	if client == nil {
		return ErrNotLoaded
	}

	properties := Properties{}
	if err := MapFields(variationFieldMappings, model, properties); err != nil {
		return err
	}
	properties.SetField("bvid", client.VisitorID())

	f.analytics.Track(VariationActivatedEvent, properties)
	return nil
}

func (f *Integration) activeVariationListener(model Model, message *Message) {
	if err := f.SendActiveVariation(model, message); err != nil {
		log.Printf("Warning: failed to send active variation: %v", err)
	}
}
