package importer

import (
	"fmt"
	"net/url"
	"strings"

	"provmgr/config/models"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Draft is a candidate source parsed from a share payload.
type Draft struct {
	Name     string
	Provider models.Provider
	Model    string
	BaseURL  string
	Key      *string
}

// Fields returns the registry fields for committing the draft. Imported
// sources are always enabled.
func (d Draft) Fields() models.SourceFields {
	return models.SourceFields{
		Name:     d.Name,
		Provider: d.Provider,
		Model:    d.Model,
		APIKey:   d.Key,
		BaseURL:  d.BaseURL,
		Enabled:  true,
	}
}

// Fragment extracts the payload from a share link. A bare payload, encoded
// or not, is returned unchanged; a URL without a fragment yields "".
func Fragment(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") || (len(raw) >= 3 && strings.EqualFold(raw[:3], "%7B")) {
		return raw
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[i+1:]
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return ""
	}
	return raw
}

// Parse decodes a percent-encoded JSON payload into a Draft. Every failure
// wraps ErrParse.
func Parse(fragment string) (Draft, error) {
	decoded, err := url.PathUnescape(fragment)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: bad percent-encoding: %v", ErrParse, err)
	}
	if !gjson.Valid(decoded) {
		return Draft{}, fmt.Errorf("%w: payload is not valid JSON", ErrParse)
	}
	doc := gjson.Parse(decoded)
	if !doc.IsObject() {
		return Draft{}, fmt.Errorf("%w: payload is not an object", ErrParse)
	}

	name, err := requiredString(doc, "name")
	if err != nil {
		return Draft{}, err
	}
	provider, err := requiredString(doc, "provider")
	if err != nil {
		return Draft{}, err
	}

	d := Draft{Name: name, Provider: models.NormalizeProvider(provider)}
	if d.Model, err = optionalString(doc, "model"); err != nil {
		return Draft{}, err
	}
	if d.BaseURL, err = optionalString(doc, "baseUrl"); err != nil {
		return Draft{}, err
	}
	key, err := optionalString(doc, "key")
	if err != nil {
		return Draft{}, err
	}
	if key != "" {
		d.Key = &key
	}
	return d, nil
}

// lookup returns the last value for field, so duplicate keys resolve the
// way JSON decoders that overwrite do.
func lookup(doc gjson.Result, field string) gjson.Result {
	var found gjson.Result
	doc.ForEach(func(k, v gjson.Result) bool {
		if k.Str == field {
			found = v
		}
		return true
	})
	return found
}

func requiredString(doc gjson.Result, field string) (string, error) {
	v := lookup(doc, field)
	s := strings.TrimSpace(v.Str)
	if v.Type != gjson.String || s == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", ErrParse, field)
	}
	return s, nil
}

func optionalString(doc gjson.Result, field string) (string, error) {
	v := lookup(doc, field)
	switch v.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return v.Str, nil
	}
	return "", fmt.Errorf("%w: %s must be a string", ErrParse, field)
}

// ShareLink builds an import link for src under base. The API key is only
// included when includeKey is set.
func ShareLink(base string, src models.Source, includeKey bool) (string, error) {
	payload := "{}"
	var err error
	set := func(path, value string) {
		if err == nil && value != "" {
			payload, err = sjson.Set(payload, path, value)
		}
	}
	set("name", src.Name)
	set("provider", string(src.Provider))
	set("model", src.Model)
	set("baseUrl", src.BaseURL)
	if includeKey {
		set("key", src.Key())
	}
	if err != nil {
		return "", fmt.Errorf("failed to build share payload: %w", err)
	}
	return strings.TrimSuffix(base, "#") + "#" + url.PathEscape(payload), nil
}
