package funnelenvy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"
)

func TestBackstageClient_Push(t *testing.T) {
	var path, contentType, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		path, contentType, body = r.URL.Path, r.Header.Get("Content-Type"), string(b)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewBackstageClient(ClientOptions{CustomerID: "testOrgId", APIURL: server.URL})
	err := client.Push(context.Background(), PushEvent{
		Event:      "segment.identify",
		Attributes: map[string]interface{}{"individual": map[string]interface{}{"id": "user-id", "email": "bob.loblaw@test.com"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if path != "/events" {
		t.Errorf("Expected path: /events but have: %s", path)
	}
	if contentType != "application/json" {
		t.Errorf("Expected content type: application/json but have: %s", contentType)
	}
	checks := map[string]string{
		"customerId":                  "testOrgId",
		"event":                       "segment.identify",
		"attributes.individual.id":    "user-id",
		"attributes.individual.email": "bob.loblaw@test.com",
	}
	for p, expected := range checks {
		if result := gjson.Get(body, p).String(); result != expected {
			t.Errorf("Expected %s: %s but have: %s in %s", p, expected, result, body)
		}
	}
}

func TestBackstageClient_PushWithoutAttributes(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))
	defer server.Close()

	client := NewBackstageClient(ClientOptions{CustomerID: "testOrgId", APIURL: server.URL})
	if err := client.Push(context.Background(), PushEvent{Event: "X"}); err != nil {
		t.Fatal(err)
	}
	if attributes := gjson.Get(body, "attributes"); !attributes.IsObject() {
		t.Errorf("Expected empty attributes object but have: %s", body)
	}
}

func TestBackstageClient_PushError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unknown customer"}`))
	}))
	defer server.Close()

	client := NewBackstageClient(ClientOptions{CustomerID: "testOrgId", APIURL: server.URL})
	if err := client.Push(context.Background(), PushEvent{Event: "X"}); err == nil {
		t.Error("Expected an error for a bad request response")
	}
}

func TestBackstageClient_Receive(t *testing.T) {
	client := NewBackstageClient(ClientOptions{CustomerID: "testOrgId"})
	var order []string
	var received []Model
	client.AddListener(ActiveVariationEvent, func(model Model, message *Message) {
		order = append(order, "first:"+message.Event)
		received = append(received, model)
	})
	client.AddListener(ActiveVariationEvent, func(model Model, message *Message) {
		order = append(order, "second:"+message.Event)
	})
	client.AddListener("backstage.other", func(model Model, message *Message) {
		order = append(order, "other")
	})

	err := client.Receive([]byte(`{"event":"backstage.activeVariation","bvid":"bvid","model":{"backstage":{"activeCampaign":{"slug":"s"}}}}`))
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"first:backstage.activeVariation", "second:backstage.activeVariation"}
	if len(order) != len(expected) || order[0] != expected[0] || order[1] != expected[1] {
		t.Errorf("Expected listener calls: %v but have: %v", expected, order)
	}
	if slug, _ := received[0].StringForPath("backstage.activeCampaign.slug"); slug != "s" {
		t.Errorf("Expected slug: s but have: %s", slug)
	}
	if client.VisitorID() != "bvid" {
		t.Errorf("Expected visitor id: bvid but have: %s", client.VisitorID())
	}
}

func TestBackstageClient_ReceiveInvalid(t *testing.T) {
	client := NewBackstageClient(ClientOptions{CustomerID: "testOrgId"})
	if err := client.Receive([]byte(`{"event":`)); err == nil {
		t.Error("Expected an error for invalid json")
	}
	if err := client.Receive([]byte(`{"model":{}}`)); err == nil {
		t.Error("Expected an error for a message without an event")
	}
}

func TestBackstageClient_EndToEnd(t *testing.T) {
	var backstage *BackstageClient
	analytics := &fakeAnalytics{}
	f := New(testOptions, analytics,
		WithScriptLoader(&fakeScriptLoader{}),
		WithClientFactory(func(options ClientOptions) (Client, error) {
			backstage = NewBackstageClient(options)
			return backstage, nil
		}),
	)
	f.Initialize(context.Background())
	<-f.Ready()

	if backstage.Options.CustomerID != "testOrgId" {
		t.Errorf("Expected customer id: testOrgId but have: %s", backstage.Options.CustomerID)
	}

	err := backstage.Receive([]byte(`{
		"event": "backstage.activeVariation",
		"bvid": "bvid",
		"model": {"backstage": {
			"activeCampaign": {"slug": "s", "name": "n", "isInHoldback": true},
			"activeVariation": {"variationId": 1, "name": "v"}
		}}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	if len(analytics.tracked) != 1 {
		t.Fatalf("Expected a single track call but have: %+v", analytics.tracked)
	}
	properties := analytics.tracked[0].Properties
	if properties["bvid"] != "bvid" || properties["campaignGroup"] != "holdback" || properties["variationId"] != json.Number("1") {
		t.Errorf("Unexpected properties: %+v", properties)
	}
}
