package funnelenvy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/carlmjohnson/requests"
)

// ScriptURLTemplate is the per-organization location of the Backstage client script.
const ScriptURLTemplate = "//cdn2.funnelenvy.com/organization/%s/backstage-client.js"

// ScriptURL returns the script location for an organization.
// The id is interpolated verbatim.
func ScriptURL(organizationid string) string {
	return fmt.Sprintf(ScriptURLTemplate, organizationid)
}

// ScriptLoader makes the vendor script available, returning once it has loaded.
type ScriptLoader interface {
	LoadScript(ctx context.Context, scriptURL string) error
}

// HTTPScriptLoader fetches the script over HTTP(S).
type HTTPScriptLoader struct {
	RecordRequests bool
}

func (l HTTPScriptLoader) scriptBuilder(scriptURL string) *requests.Builder {
	result := requests.
		URL(absoluteURL(scriptURL)).
		Client(&http.Client{Timeout: HTTPRequestTimeout})
	if l.RecordRequests {
		result = result.Transport(requests.Record(nil, "testdata/.requests/script"))
	}
	return result
}

func (l HTTPScriptLoader) LoadScript(ctx context.Context, scriptURL string) error {
	var script string
	err := l.scriptBuilder(scriptURL).
		Accept("application/javascript").
		ToString(&script).
		Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch script %s: %w", scriptURL, err)
	}
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("empty script returned from %s", scriptURL)
	}
	return nil
}

// Load loads the organization's script, constructs the vendor client and stores it,
// then calls done. done is called at most once, and never if loading fails.
// Failures are logged, nothing is returned to the host.
// Repeated calls each issue their own load.
func (f *Integration) Load(ctx context.Context, done func()) {
	scriptURL := ScriptURL(f.options.OrganizationID)
	go func() {
		if err := f.scriptLoader.LoadScript(ctx, scriptURL); err != nil {
			log.Printf("Warning: FunnelEnvy script failed to load: %v", err)
			return
		}
		client, err := f.newClient(ClientOptions{
			CustomerID: f.options.OrganizationID,
			APIURL:     f.options.APIURL,
		})
		if err == nil && client == nil {
			err = errors.New("client factory returned no client")
		}
		if err != nil {
			log.Printf("Warning: FunnelEnvy client could not be constructed: %v", err)
			return
		}
		f.setClient(client)
		if done != nil {
			done()
		}
	}()
}
