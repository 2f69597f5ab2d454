package providers

import (
	"strings"
	"testing"

	"provmgr/config/models"
)

func TestGeminiProvider(t *testing.T) {
	p := &GeminiProvider{}

	t.Run("Name", func(t *testing.T) {
		if got := p.Name(); got != models.ProviderGemini {
			t.Errorf("Name() = %v, want %v", got, models.ProviderGemini)
		}
	})

	t.Run("DefaultBaseURL", func(t *testing.T) {
		if got := p.DefaultBaseURL(); got != GeminiBaseURL {
			t.Errorf("DefaultBaseURL() = %v, want %v", got, GeminiBaseURL)
		}
	})

	t.Run("DefaultModel", func(t *testing.T) {
		if got := p.DefaultModel(); got != GeminiModel {
			t.Errorf("DefaultModel() = %v, want %v", got, GeminiModel)
		}
	})

	t.Run("ValidateConfig", func(t *testing.T) {
		tests := []struct {
			name    string
			apiKey  string
			wantErr bool
		}{
			{"valid with apiKey", "AIza-test-123", false},
			{"invalid without apiKey", "", true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := p.ValidateConfig("", tt.apiKey)
				if (err != nil) != tt.wantErr {
					t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})
}

func TestOpenAIProvider(t *testing.T) {
	p := &OpenAIProvider{}

	t.Run("Name", func(t *testing.T) {
		if got := p.Name(); got != models.ProviderOpenAI {
			t.Errorf("Name() = %v, want %v", got, models.ProviderOpenAI)
		}
	})

	t.Run("DefaultBaseURL", func(t *testing.T) {
		if got := p.DefaultBaseURL(); got != OpenAIBaseURL {
			t.Errorf("DefaultBaseURL() = %v, want %v", got, OpenAIBaseURL)
		}
	})

	t.Run("KeyURL", func(t *testing.T) {
		if !strings.HasPrefix(p.KeyURL(), "https://") {
			t.Errorf("KeyURL() = %v, want https URL", p.KeyURL())
		}
	})

	t.Run("ValidateConfig", func(t *testing.T) {
		if err := p.ValidateConfig("", ""); err == nil {
			t.Error("ValidateConfig() should fail without API key")
		}
		if err := p.ValidateConfig("", "sk-test"); err != nil {
			t.Errorf("ValidateConfig() unexpected error: %v", err)
		}
	})
}

func TestRegistry(t *testing.T) {
	t.Run("Get registered providers", func(t *testing.T) {
		for _, name := range []models.Provider{models.ProviderGemini, models.ProviderOpenAI} {
			p, err := Get(name)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", name, err)
			}
			if p.Name() != name {
				t.Errorf("Get(%q).Name() = %v", name, p.Name())
			}
		}
	})

	t.Run("Get unknown provider", func(t *testing.T) {
		_, err := Get("anthropic")
		if err == nil {
			t.Fatal("Get() should fail for unknown provider")
		}
		if !strings.Contains(err.Error(), "unknown provider") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("List is sorted", func(t *testing.T) {
		list := List()
		if len(list) != 2 || list[0] != models.ProviderGemini || list[1] != models.ProviderOpenAI {
			t.Errorf("List() = %v", list)
		}
	})
}

func TestDefaultBaseURL(t *testing.T) {
	tests := []struct {
		provider models.Provider
		expected string
	}{
		{models.ProviderGemini, GeminiBaseURL},
		{models.ProviderOpenAI, OpenAIBaseURL},
		{"mistral", OpenAIBaseURL},
		{"", OpenAIBaseURL},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			if got := DefaultBaseURL(tt.provider); got != tt.expected {
				t.Errorf("DefaultBaseURL(%q) = %q, want %q", tt.provider, got, tt.expected)
			}
		})
	}
}

func TestSeeds(t *testing.T) {
	seeds := Seeds()

	covered := map[models.Provider]bool{}
	for _, s := range seeds {
		covered[s.Provider] = true
		if s.APIKey != nil {
			t.Errorf("seed %q should not carry a key", s.Name)
		}
		if s.Enabled {
			t.Errorf("seed %q should start disabled", s.Name)
		}
		if s.BaseURL == "" {
			t.Errorf("seed %q should have a base URL", s.Name)
		}
	}

	for _, name := range List() {
		if !covered[name] {
			t.Errorf("no seed for provider %q", name)
		}
	}
}
