package providers

import (
	"errors"
	"fmt"
	"sort"

	"provmgr/config/models"
)

// Provider defines the standard interface for API providers
type Provider interface {
	// Name returns the provider's name (e.g., "gemini", "openai")
	Name() models.Provider
	// DefaultBaseURL returns the default base URL for the provider
	DefaultBaseURL() string
	// DefaultModel returns the default model for the provider
	DefaultModel() string
	// KeyURL returns the page where a user can create an API key
	KeyURL() string
	// ValidateConfig validates the credential fields for this provider
	ValidateConfig(baseURL, apiKey string) error
}

// registry stores all registered providers
var registry = make(map[models.Provider]Provider)

// Register registers a new provider
func Register(provider Provider) {
	registry[provider.Name()] = provider
}

// Get returns a provider by name
func Get(name models.Provider) (Provider, error) {
	provider, ok := registry[name]
	if !ok {
		return nil, errors.New("unknown provider: " + string(name))
	}
	return provider, nil
}

// List returns all registered provider names in sorted order
func List() []models.Provider {
	list := make([]models.Provider, 0, len(registry))
	for name := range registry {
		list = append(list, name)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// DefaultBaseURL returns the default endpoint for a provider name.
// Unknown providers are treated as OpenAI-compatible.
func DefaultBaseURL(name models.Provider) string {
	if p, err := Get(name); err == nil {
		return p.DefaultBaseURL()
	}
	return OpenAIBaseURL
}

// Default endpoints and models.
const (
	OpenAIBaseURL = "https://api.openai.com/v1"
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	QwenBaseURL   = "https://dashscope.aliyuncs.com/compatible-mode/v1"

	OpenAIModel = "gpt-4o-mini"
	GeminiModel = "gemini-2.5-flash"
	QwenModel   = "qwen3-vl-plus"

	// QwenKeyURL is where DashScope tokens are issued.
	QwenKeyURL = "https://bailian.console.aliyun.com/?tab=model#/api-key"
)

// Seeds returns the sources created on first run, in display order.
// None of them carries a key or is enabled.
func Seeds() []models.SourceFields {
	return []models.SourceFields{
		{Name: "Gemini", Provider: models.ProviderGemini, Model: GeminiModel, BaseURL: GeminiBaseURL},
		{Name: "OpenAI", Provider: models.ProviderOpenAI, Model: OpenAIModel, BaseURL: OpenAIBaseURL},
		{Name: "Qwen", Provider: models.ProviderOpenAI, Model: QwenModel, BaseURL: QwenBaseURL},
	}
}

// GeminiProvider is the built-in Google Gemini provider
type GeminiProvider struct{}

func (p *GeminiProvider) Name() models.Provider {
	return models.ProviderGemini
}

func (p *GeminiProvider) DefaultBaseURL() string {
	return GeminiBaseURL
}

func (p *GeminiProvider) DefaultModel() string {
	return GeminiModel
}

func (p *GeminiProvider) KeyURL() string {
	return "https://aistudio.google.com/api-keys"
}

func (p *GeminiProvider) ValidateConfig(baseURL, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("gemini: must provide API key")
	}
	return nil
}

// OpenAIProvider is the built-in OpenAI-compatible provider
type OpenAIProvider struct{}

func (p *OpenAIProvider) Name() models.Provider {
	return models.ProviderOpenAI
}

func (p *OpenAIProvider) DefaultBaseURL() string {
	return OpenAIBaseURL
}

func (p *OpenAIProvider) DefaultModel() string {
	return OpenAIModel
}

func (p *OpenAIProvider) KeyURL() string {
	return "https://platform.openai.com/settings/organization/api-keys"
}

func (p *OpenAIProvider) ValidateConfig(baseURL, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("openai: must provide API key")
	}
	return nil
}

func init() {
	Register(&GeminiProvider{})
	Register(&OpenAIProvider{})
}
