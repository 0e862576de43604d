package funnelenvy

// IdentifyCall is a host identify call. Traits includes the user id as "id".
type IdentifyCall struct {
	UserID      string
	TraitValues map[string]interface{}
}

func (c IdentifyCall) Traits() map[string]interface{} {
	return withID(c.TraitValues, c.UserID)
}

// GroupCall is a host group call. Traits includes the group id as "id".
type GroupCall struct {
	GroupID     string
	TraitValues map[string]interface{}
}

func (c GroupCall) Traits() map[string]interface{} {
	return withID(c.TraitValues, c.GroupID)
}

type TrackCall struct {
	Name           string
	PropertyValues map[string]interface{}
}

func (c TrackCall) Event() string { return c.Name }

func (c TrackCall) Properties() map[string]interface{} {
	result := make(map[string]interface{}, len(c.PropertyValues))
	for k, v := range c.PropertyValues {
		result[k] = v
	}
	return result
}

func withID(traits map[string]interface{}, id string) map[string]interface{} {
	result := make(map[string]interface{}, len(traits)+1)
	for k, v := range traits {
		result[k] = v
	}
	if id != "" {
		result["id"] = id
	}
	return result
}
