package funnelenvy

import "fmt"

// Mappable provides a common interface for types that fields can be mapped into.
type Mappable interface {
	GetFields() map[string]interface{}
	SetField(key string, value interface{})
}

// Properties is a generic property map, as sent to the host's Track.
type Properties map[string]interface{}

func (p Properties) GetFields() map[string]interface{} { return p }

func (p Properties) SetField(key string, value interface{}) { p[key] = value }

// FieldMappings maps destination field names to model paths.
// Paths may use gjson modifiers, e.g. "backstage.activeCampaign|@campaignGroup".
type FieldMappings struct {
	// Required paths must be present in the model before anything is mapped.
	Required []string
	Strings  map[string]string
	Values   map[string]string
}

// MissingFieldError reports a required model path that was absent.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("model is missing required field %s", e.Path)
}

// MapFields maps fields from a model to a destination using the provided mappings.
// Absent optional fields are mapped to nil.
func MapFields(mappings FieldMappings, source Model, destination Mappable) error {
	for _, path := range mappings.Required {
		if !source.Exists(path) {
			return &MissingFieldError{Path: path}
		}
	}
	if mappings.Strings != nil {
		for field, path := range mappings.Strings {
			if result, exists := source.StringForPath(path); exists {
				destination.SetField(field, result)
			} else {
				destination.SetField(field, nil)
			}
		}
	}
	if mappings.Values != nil {
		for field, path := range mappings.Values {
			if result, exists := source.ValueForPath(path); exists {
				destination.SetField(field, result)
			} else {
				destination.SetField(field, nil)
			}
		}
	}
	return nil
}
