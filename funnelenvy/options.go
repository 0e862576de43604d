package funnelenvy

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iancoleman/strcase"
	"go.uber.org/config"
)

// DefaultAPIURL is the Backstage API used when no apiURL option is configured.
const DefaultAPIURL = "//backstage.funnelenvy.com"

// Options holds the integration settings supplied by the host.
// They are immutable once an Integration has been constructed.
type Options struct {
	OrganizationID string `yaml:"organizationId"`
	APIURL         string `yaml:"apiURL"`
}

// DefaultOptions returns the option defaults registered with the host.
func DefaultOptions() Options {
	return Options{
		OrganizationID: "",
		APIURL:         DefaultAPIURL,
	}
}

// OptionsFromSettings builds Options from a host settings map.
// Keys are matched regardless of casing style, so "organizationId",
// "organization_id" and "OrganizationId" are all accepted.
// Unknown keys are ignored.
func OptionsFromSettings(settings map[string]interface{}) (Options, error) {
	result := DefaultOptions()
	for k, v := range settings {
		key := settingKey(k)
		switch key {
		case "organizationid":
			s, ok := v.(string)
			if !ok {
				return result, fmt.Errorf("setting %q must be a string but have %T", k, v)
			}
			result.OrganizationID = s
		case "apiurl":
			s, ok := v.(string)
			if !ok {
				return result, fmt.Errorf("setting %q must be a string but have %T", k, v)
			}
			if s != "" {
				result.APIURL = s
			}
		}
	}
	return result, nil
}

func hasAPIURLSetting(settings map[string]interface{}) bool {
	for k, v := range settings {
		if settingKey(k) == "apiurl" {
			if s, ok := v.(string); ok && s != "" {
				return true
			}
		}
	}
	return false
}

func settingKey(k string) string {
	return strings.ToLower(strcase.ToLowerCamel(k))
}

type OptionsUnmarshaler interface {
	Unmarshal(compev CompositeEnvVar, sources ...SettingsFile) (Options, error)
}

type CompositeEnvVar interface {
	LookupEnv(child string) (string, bool)
}

// JSONCompositeEnvVar resolves variables from a single env var holding a JSON object,
// e.g. ACME_FUNNELENVY={"FUNNELENVY_ORGANIZATION_ID":"acme","SETTINGS_PATH":"acme.yaml"}
type JSONCompositeEnvVar struct {
	Parent string
}

func (c JSONCompositeEnvVar) LookupEnv(child string) (string, bool) {
	if c.Parent != "" {
		s := os.Getenv(c.Parent)
		if s != "" {
			m := make(map[string]string)
			err := json.Unmarshal([]byte(s), &m)
			if err == nil {
				v, exists := m[child]
				return v, exists
			}
		}
	}
	return "", false
}

type YAMLOptionsUnmarshaler struct{}

// Unmarshal merges the sources in order (later sources win) on top of DefaultOptions.
// ${VAR} references in the sources are expanded through compev.
func (u YAMLOptionsUnmarshaler) Unmarshal(compev CompositeEnvVar, sources ...SettingsFile) (Options, error) {
	result := DefaultOptions()
	var options []config.YAMLOption
	for _, s := range sources {
		if s.Length > 0 {
			options = append(options, config.Source(s.Reader))
		}
	}
	if len(options) == 0 {
		return result, nil
	}
	if compev != nil {
		options = append(options, config.Expand(compev.LookupEnv))
	}
	yaml, err := config.NewYAML(options...)
	if err != nil {
		return result, fmt.Errorf("failed to read yaml options %w", err)
	}
	readError := func(key string, cause error) error {
		return fmt.Errorf("failed to read '%s' from yaml options %w", key, cause)
	}
	key := "organizationId"
	if yaml.Get(key).HasValue() {
		err = yaml.Get(key).Populate(&result.OrganizationID)
		if err != nil {
			return result, readError(key, err)
		}
	}
	key = "apiURL"
	if yaml.Get(key).HasValue() {
		var apiURL string
		err = yaml.Get(key).Populate(&apiURL)
		if err != nil {
			return result, readError(key, err)
		}
		if apiURL != "" {
			result.APIURL = apiURL
		}
	}
	return result, nil
}
