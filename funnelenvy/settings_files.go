package funnelenvy

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

type SettingsFile struct {
	Name   string
	Reader io.Reader
	Length int
}

// NewSettingsFile wraps in-memory YAML as a SettingsFile.
func NewSettingsFile(name string, yaml string) SettingsFile {
	return SettingsFile{
		Name:   name,
		Reader: strings.NewReader(yaml),
		Length: len(yaml),
	}
}

type EmbeddedSettings struct {
	Root  string
	Files EmbeddedFS
}

type EmbeddedFS interface {
	Open(name string) (fs.File, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}

func (es EmbeddedSettings) MustFindRootSettingsFile(filename string) (SettingsFile, error) {
	var result SettingsFile
	name := path.Join(es.Root, filename)
	b, err := es.Files.ReadFile(name)
	if err == nil {
		result.Name = name
		result.Reader = bytes.NewReader(b)
		result.Length = len(b)
	}
	return result, err
}

func (es EmbeddedSettings) MustFindDefaultsSettingsFile() (SettingsFile, error) {
	return es.MustFindRootSettingsFile("defaults.yaml")
}

// MustFindOrganizationSettingsFile finds the single file in the organizations
// directory whose name starts with the given settings path.
func (es EmbeddedSettings) MustFindOrganizationSettingsFile(settingspath string) (SettingsFile, error) {
	var result SettingsFile
	dir := path.Join(es.Root, "organizations")
	files, err := es.Files.ReadDir(dir)
	if err != nil {
		return result, err
	}
	for _, file := range files {
		p := file.Name()
		if strings.HasPrefix(p, settingspath) {
			// multiple matches are not supported - guard against misconfiguration
			if result.Name != "" {
				return result, fmt.Errorf("found multiple settings files with prefix: %s in dir: %s", settingspath, dir)
			}
			p = path.Join(dir, p)
			var b []byte
			b, err = es.Files.ReadFile(p)
			if err != nil {
				return result, err
			}
			result.Name = p
			result.Reader = bytes.NewReader(b)
			result.Length = len(b)
		}
	}
	if result.Name == "" {
		err = fmt.Errorf("failed to find settings file with prefix: %s in dir: %s", settingspath, dir)
	}
	return result, err
}
