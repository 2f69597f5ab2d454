package route

import (
	"testing"

	"provmgr/config/models"
)

type fakeRegistry struct {
	src models.Source
	ok  bool
}

func (f fakeRegistry) ActiveSource() (models.Source, bool) { return f.src, f.ok }

func TestRequireKey(t *testing.T) {
	key := "sk-1"
	tests := []struct {
		name    string
		reg     fakeRegistry
		from    string
		want    string
		wantErr bool
	}{
		{"active with key passes", fakeRegistry{models.Source{APIKey: &key}, true}, Settings, Settings, false},
		{"active without key", fakeRegistry{models.Source{}, true}, Settings, "/init?from=%2Fsettings", true},
		{"no active source", fakeRegistry{}, Home, Init, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireKey(tt.reg, tt.from)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequireKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err != ErrSetupRequired {
				t.Errorf("expected ErrSetupRequired, got %v", err)
			}
			if got != tt.want {
				t.Errorf("RequireKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAfterSetup(t *testing.T) {
	tests := map[string]string{
		"":                  Home,
		"/":                 Home,
		"/settings":         "/settings",
		"/init":             Home,
		"/init?from=/x":     Home,
		"https://evil.test": Home,
		"//evil.test":       Home,
		" /settings ":       "/settings",
	}
	for in, want := range tests {
		if got := AfterSetup(in); got != want {
			t.Errorf("AfterSetup(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromQueryRoundTrip(t *testing.T) {
	for _, from := range []string{Home, Settings, "/sources?page=2"} {
		if got := FromQuery(InitWithFrom(from)); got != from {
			t.Errorf("FromQuery(InitWithFrom(%q)) = %q", from, got)
		}
	}
}
