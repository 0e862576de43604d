package funnelenvy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// PushEvent is the envelope handed to the vendor client's Push.
type PushEvent struct {
	Event      string                 `json:"event"`
	Attributes map[string]interface{} `json:"attributes"`
}

// Message is a vendor data layer event message.
type Message struct {
	Event string `json:"event"`
}

// Listener receives vendor data layer events. message may be nil.
type Listener func(model Model, message *Message)

// Client is the FunnelEnvy runtime the integration drives once the script has loaded.
type Client interface {
	Push(ctx context.Context, event PushEvent) error
	AddListener(event string, listener Listener)
	// VisitorID returns the Backstage visitor id (bvid) for the current session.
	VisitorID() string
}

// ClientOptions are passed to a ClientFactory once the script has loaded.
type ClientOptions struct {
	CustomerID string `json:"customerId"`
	APIURL     string `json:"apiUrl"`
}

type ClientFactory func(options ClientOptions) (Client, error)

// Model is a read-only view of the vendor data layer model.
type Model struct {
	data gjson.Result
}

// ParseModel parses a data layer model from JSON.
func ParseModel(json string) (Model, error) {
	if !gjson.Valid(json) {
		return Model{}, errors.New("invalid json model")
	}
	return Model{data: gjson.Parse(json)}, nil
}

// NewModel builds a Model from decoded data, e.g. a map[string]interface{}.
func NewModel(data interface{}) (Model, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return Model{}, fmt.Errorf("failed to encode model %w", err)
	}
	return ParseModel(string(b))
}

func (m Model) Exists(path string) bool {
	result := m.data.Get(path)
	return result.Exists() && (result.Value() != nil)
}

func (m Model) StringForPath(path string) (string, bool) {
	result := m.data.Get(path)
	return result.String(), result.Exists() && (result.Value() != nil)
}

// ValueForPath returns the value at path as it appears in the model.
// Numbers are returned as json.Number so integer ids keep their precision.
func (m Model) ValueForPath(path string) (interface{}, bool) {
	result := m.data.Get(path)
	if !result.Exists() || result.Type == gjson.Null {
		return nil, false
	}
	switch result.Type {
	case gjson.Number:
		return json.Number(result.Raw), true
	case gjson.String:
		return result.String(), true
	default:
		return result.Value(), true
	}
}

func (m Model) Raw() string {
	return m.data.Raw
}
