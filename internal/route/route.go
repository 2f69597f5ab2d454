// Package route holds the navigation contract shared by the commands and the
// import view: where to go without an import payload, and when to send the
// user to setup first.
package route

import (
	"errors"
	"net/url"
	"strings"

	"provmgr/config/models"
)

const (
	Home     = "/"
	Init     = "/init"
	Settings = "/settings"
)

// ErrSetupRequired means the active source has no API key.
var ErrSetupRequired = errors.New("setup required: the active source has no API key")

// ActiveSource is satisfied by *registry.Registry.
type ActiveSource interface {
	ActiveSource() (models.Source, bool)
}

// RequireKey guards a destination that needs a usable key. When the active
// source is missing or has no key it returns the setup location, carrying
// from, together with ErrSetupRequired.
func RequireKey(reg ActiveSource, from string) (string, error) {
	if src, ok := reg.ActiveSource(); ok && src.HasKey() {
		return from, nil
	}
	return InitWithFrom(from), ErrSetupRequired
}

// InitWithFrom returns the setup location that returns to from afterwards.
func InitWithFrom(from string) string {
	from = AfterSetup(from)
	if from == Home {
		return Init
	}
	return Init + "?" + url.Values{"from": {from}}.Encode()
}

// AfterSetup returns where to go once setup is done. It never returns the
// setup page itself, and only accepts local paths.
func AfterSetup(from string) string {
	from = strings.TrimSpace(from)
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return Home
	}
	if from == Init || strings.HasPrefix(from, Init+"?") || strings.HasPrefix(from, Init+"/") {
		return Home
	}
	return from
}

// FromQuery extracts from out of a setup location such as "/init?from=/settings".
func FromQuery(location string) string {
	_, query, _ := strings.Cut(location, "?")
	values, err := url.ParseQuery(query)
	if err != nil {
		return Home
	}
	return AfterSetup(values.Get("from"))
}

// ImportFallback is where a share link without payload lands.
func ImportFallback() string { return Home }
