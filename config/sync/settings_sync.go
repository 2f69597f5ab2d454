// Package sync writes the active source into the JSON settings file of a
// downstream tool, touching only the provider section.
package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"provmgr/config/models"
	"provmgr/config/storage"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultSection is the settings key holding the provider fields.
const DefaultSection = "ai"

// managedFields are the keys written inside the section.
var managedFields = []string{"provider", "model", "baseUrl", "apiKey"}

// SyncOptions provides options for synchronization
type SyncOptions struct {
	Section       string // defaults to DefaultSection
	DryRun        bool   // validate only, do not write
	CreateBackup  bool   // back up the settings file before writing
	PreserveOther bool   // keep unmanaged keys inside the section
}

func (o SyncOptions) section() string {
	if o.Section == "" {
		return DefaultSection
	}
	return o.Section
}

// UpdateSettings returns originalContent with the section rewritten for src.
// Only non-empty source fields are written.
func UpdateSettings(originalContent string, src models.Source, opts SyncOptions) (string, error) {
	if strings.TrimSpace(originalContent) == "" {
		originalContent = "{}"
	}
	if !gjson.Valid(originalContent) || !gjson.Parse(originalContent).IsObject() {
		return "", fmt.Errorf("settings file is not a JSON object")
	}
	section := opts.section()
	if strings.ContainsAny(section, ".*?|#@\\") {
		return "", fmt.Errorf("invalid settings section: %q", section)
	}

	updated := make(map[string]any)
	if existing := gjson.Get(originalContent, section); existing.IsObject() && opts.PreserveOther {
		existing.ForEach(func(key, value gjson.Result) bool {
			if !isManaged(key.Str) {
				updated[key.Str] = json.RawMessage(value.Raw)
			}
			return true
		})
	}
	set := func(k, v string) {
		if v != "" {
			updated[k] = v
		}
	}
	set("provider", string(src.Provider))
	set("model", src.Model)
	set("baseUrl", src.BaseURL)
	set("apiKey", src.Key())

	sectionJSON, err := json.Marshal(updated)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s section: %w", section, err)
	}

	updatedContent, err := sjson.SetRawOptions(originalContent, section, string(sectionJSON), &sjson.Options{Optimistic: true})
	if err != nil {
		return "", fmt.Errorf("failed to update %s section: %w", section, err)
	}

	if err := validateJSONUpdate(originalContent, updatedContent, section, opts.PreserveOther); err != nil {
		return "", fmt.Errorf("update validation failed: %w", err)
	}
	return updatedContent, nil
}

// SyncFile applies UpdateSettings to the file at path and writes it back
// atomically. A missing file is created. It returns the new content.
func SyncFile(path string, src models.Source, opts SyncOptions) (string, error) {
	original := ""
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		original = string(data)
	case !os.IsNotExist(err):
		return "", fmt.Errorf("failed to read settings file: %w", err)
	}

	updated, err := UpdateSettings(original, src, opts)
	if err != nil {
		return "", err
	}
	if opts.DryRun {
		return updated, nil
	}
	if err := storage.AtomicFileUpdate(path, updated, opts.CreateBackup && original != ""); err != nil {
		return "", fmt.Errorf("failed to write settings file: %w", err)
	}
	return updated, nil
}

func isManaged(key string) bool {
	for _, f := range managedFields {
		if f == key {
			return true
		}
	}
	return false
}

// validateJSONUpdate checks that nothing outside the section changed and,
// when preserve is set, that unmanaged keys inside it survived.
func validateJSONUpdate(originalContent, updatedContent, section string, preserve bool) error {
	if !json.Valid([]byte(updatedContent)) {
		return fmt.Errorf("updated JSON is invalid")
	}

	original, updated, err := parseToMaps(originalContent, updatedContent)
	if err != nil {
		return err
	}
	if differences := deepCompare(original, updated, section); len(differences) > 0 {
		return fmt.Errorf("unexpected changes outside %s: %s", section, strings.Join(differences, ", "))
	}

	if !preserve {
		return nil
	}
	originalSection, _ := original[section].(map[string]any)
	updatedSection, _ := updated[section].(map[string]any)
	for key, originalVal := range originalSection {
		if isManaged(key) {
			continue
		}
		updatedVal, exists := updatedSection[key]
		if !exists {
			return fmt.Errorf("field '%s.%s' was deleted", section, key)
		}
		if fmt.Sprintf("%v", originalVal) != fmt.Sprintf("%v", updatedVal) {
			return fmt.Errorf("field '%s.%s' was modified", section, key)
		}
	}
	return nil
}

// parseToMaps parses two JSON strings to maps for deep comparison
func parseToMaps(originalStr, updatedStr string) (map[string]any, map[string]any, error) {
	var original map[string]any
	if err := json.Unmarshal([]byte(originalStr), &original); err != nil {
		return nil, nil, fmt.Errorf("failed to parse original JSON: %w", err)
	}

	var updated map[string]any
	if err := json.Unmarshal([]byte(updatedStr), &updated); err != nil {
		return nil, nil, fmt.Errorf("failed to parse updated JSON: %w", err)
	}

	return original, updated, nil
}

// deepCompare lists the differing top-level paths, ignoring skip.
func deepCompare(original, updated map[string]any, skip string) []string {
	var differences []string

	for key, originalVal := range original {
		if key == skip {
			continue
		}
		updatedVal, exists := updated[key]
		if !exists {
			differences = append(differences, key+" (missing)")
			continue
		}
		originalMap, originalIsMap := originalVal.(map[string]any)
		updatedMap, updatedIsMap := updatedVal.(map[string]any)
		if originalIsMap && updatedIsMap {
			for _, diff := range deepCompare(originalMap, updatedMap, "") {
				differences = append(differences, key+"."+diff)
			}
		} else if fmt.Sprintf("%v", originalVal) != fmt.Sprintf("%v", updatedVal) {
			differences = append(differences, key)
		}
	}

	for key := range updated {
		if key == skip {
			continue
		}
		if _, exists := original[key]; !exists {
			differences = append(differences, key+" (new)")
		}
	}

	return differences
}
