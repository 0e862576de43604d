package funnelenvy

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	// OrganizationIDEnvKey is the key identifying the organization in a JSON composite env var.
	OrganizationIDEnvKey = "FUNNELENVY_ORGANIZATION_ID"
	// SettingsPathEnvKey is the key naming the organization's settings file.
	SettingsPathEnvKey = "SETTINGS_PATH"
)

// FindOrganizationEnvVar returns the name of the composite env var configuring
// the organization, and the SETTINGS_PATH it holds.
// Empty strings are returned when no env var configures the organization.
// An organization configured by several env vars, or without a SETTINGS_PATH, is an error.
func FindOrganizationEnvVar(organizationid string) (envVarName string, settingsPath string, err error) {
	var candidates []JSONCompositeEnvVar
	for _, name := range environNames() {
		compev := JSONCompositeEnvVar{Parent: name}
		if id, ok := compev.LookupEnv(OrganizationIDEnvKey); ok && id == organizationid {
			candidates = append(candidates, compev)
		}
	}

	switch len(candidates) {
	case 0:
		return "", "", nil
	case 1:
		compev := candidates[0]
		p, ok := compev.LookupEnv(SettingsPathEnvKey)
		if !ok || p == "" {
			return "", "", fmt.Errorf("organization %q in %s has no %s", organizationid, compev.Parent, SettingsPathEnvKey)
		}
		return compev.Parent, p, nil
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Parent
		}
		sort.Strings(names)
		return "", "", fmt.Errorf("organization %q is configured by more than one env var: %s", organizationid, strings.Join(names, ", "))
	}
}

func environNames() []string {
	environ := os.Environ()
	names := make([]string, 0, len(environ))
	for _, env := range environ {
		if name, _, found := strings.Cut(env, "="); found && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// LoadOptionsFromEnvironment loads the options for an organization from the
// embedded defaults and the settings file named by its composite env var.
func LoadOptionsFromEnvironment(settings EmbeddedSettings, organizationid string) (Options, error) {
	result := DefaultOptions()

	envVarName, settingsPath, err := FindOrganizationEnvVar(organizationid)
	if err != nil {
		return result, fmt.Errorf("failed to find organization env var %w", err)
	}
	if envVarName == "" {
		return result, fmt.Errorf("no env var found with %s %q", OrganizationIDEnvKey, organizationid)
	}

	defaultsFile, err := settings.MustFindDefaultsSettingsFile()
	if err != nil {
		return result, fmt.Errorf("failed to read defaults settings file %w", err)
	}

	organizationFile, err := settings.MustFindOrganizationSettingsFile(settingsPath)
	if err != nil {
		return result, fmt.Errorf("failed to read organization settings file %w", err)
	}

	result, err = YAMLOptionsUnmarshaler{}.Unmarshal(
		JSONCompositeEnvVar{Parent: envVarName},
		defaultsFile,
		organizationFile,
	)
	if err != nil {
		return result, fmt.Errorf("failed to load options %w", err)
	}

	return result, nil
}

// ResolveOptions builds Options from host settings. When settings are given and the
// host supplies no apiURL, the organization's settings file (found through its
// composite env var) provides it. Organizations without an env var keep the defaults.
func ResolveOptions(hostsettings map[string]interface{}, settings *EmbeddedSettings) (Options, error) {
	result, err := OptionsFromSettings(hostsettings)
	if err != nil || settings == nil || result.OrganizationID == "" || hasAPIURLSetting(hostsettings) {
		return result, err
	}

	envVarName, _, err := FindOrganizationEnvVar(result.OrganizationID)
	if err != nil {
		return result, fmt.Errorf("failed to find organization env var %w", err)
	}
	if envVarName == "" {
		return result, nil
	}

	loaded, err := LoadOptionsFromEnvironment(*settings, result.OrganizationID)
	if err != nil {
		return result, err
	}
	result.APIURL = loaded.APIURL
	return result, nil
}
