package funnelenvy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	gosync "sync"

	"github.com/carlmjohnson/requests"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type BackstageError map[string]interface{}

// BackstageClient is the default Client, pushing events to the Backstage API
// and dispatching data layer messages it receives to registered listeners.
// Its REST transport (POST {apiURL}/events with a customerId body) is assumed,
// not FunnelEnvy's published API; use WithClientFactory to supply the real one.
type BackstageClient struct {
	Options        ClientOptions
	RecordRequests bool

	mu        gosync.RWMutex
	listeners map[string][]Listener
	visitorID string
}

func NewBackstageClient(options ClientOptions) *BackstageClient {
	return &BackstageClient{
		Options:   options,
		listeners: make(map[string][]Listener),
	}
}

// BackstageClientFactory is the ClientFactory used unless another is configured.
func BackstageClientFactory(options ClientOptions) (Client, error) {
	return NewBackstageClient(options), nil
}

// BackstageAPIBuilder returns a new requests.Builder configured for the Backstage API.
func (c *BackstageClient) BackstageAPIBuilder() *requests.Builder {
	result := requests.
		URL(absoluteURL(c.Options.APIURL)).
		Client(&http.Client{Timeout: HTTPRequestTimeout})
	if c.RecordRequests {
		result = result.Transport(requests.Record(nil, fmt.Sprintf("testdata/.requests/%s/backstage", c.Options.CustomerID)))
	}
	return result
}

// Push sends an event to the Backstage API as
// {"customerId": ..., "event": ..., "attributes": {...}} on the assumed /events endpoint.
func (c *BackstageClient) Push(ctx context.Context, event PushEvent) error {
	body, err := sjson.SetBytes(nil, "customerId", c.Options.CustomerID)
	if err == nil {
		body, err = sjson.SetBytes(body, "event", event.Event)
	}
	if err == nil {
		attributes := event.Attributes
		if attributes == nil {
			attributes = map[string]interface{}{}
		}
		body, err = sjson.SetBytes(body, "attributes", attributes)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %q event: %w", event.Event, err)
	}

	backstageError := BackstageError{}
	err = c.BackstageAPIBuilder().
		Path("/events").
		BodyBytes(body).
		ContentType("application/json").
		ErrorJSON(&backstageError).
		Fetch(ctx)
	if err != nil {
		log.Printf("Backstage Error: %+v", backstageError)
		return fmt.Errorf("failed to push %q event: %w", event.Event, err)
	}
	return nil
}

// AddListener registers a listener for a data layer event.
// Listeners for the same event are called in registration order.
func (c *BackstageClient) AddListener(event string, listener Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[event] = append(c.listeners[event], listener)
}

func (c *BackstageClient) VisitorID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visitorID
}

func (c *BackstageClient) SetVisitorID(bvid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visitorID = bvid
}

// Receive dispatches a data layer message to the listeners for its event.
// The payload has the form {"event": "...", "model": {...}, "bvid": "..."};
// bvid is optional and, when present, replaces the current visitor id.
func (c *BackstageClient) Receive(payload []byte) error {
	if !gjson.ValidBytes(payload) {
		return errors.New("invalid json message")
	}
	msg := gjson.ParseBytes(payload)
	event := msg.Get("event")
	if !event.Exists() {
		return errors.New("message is missing an event")
	}
	if bvid := msg.Get("bvid"); bvid.Exists() {
		c.SetVisitorID(bvid.String())
	}

	c.mu.RLock()
	listeners := append([]Listener(nil), c.listeners[event.String()]...)
	c.mu.RUnlock()

	model := Model{data: msg.Get("model")}
	for _, listener := range listeners {
		listener(model, &Message{Event: event.String()})
	}
	return nil
}
