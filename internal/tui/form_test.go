package tui

import (
	"testing"

	"provmgr/config/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormDataFields(t *testing.T) {
	tests := []struct {
		name        string
		data        FormData
		wantModel   string
		wantKey     string
		wantEnabled bool
	}{
		{
			name:      "defaults model for known provider",
			data:      FormData{Name: " Work ", Provider: "OpenAI"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:        "key enables source",
			data:        FormData{Name: "Work", Provider: "gemini", Model: "gemini-pro", APIKey: " k "},
			wantModel:   "gemini-pro",
			wantKey:     "k",
			wantEnabled: true,
		},
		{
			name: "unknown provider keeps empty model",
			data: FormData{Name: "Local", Provider: "ollama"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.data.Fields()
			assert.Equal(t, tt.wantModel, f.Model)
			assert.Equal(t, tt.wantEnabled, f.Enabled)
			if tt.wantKey == "" {
				assert.Nil(t, f.APIKey)
			} else {
				require.NotNil(t, f.APIKey)
				assert.Equal(t, tt.wantKey, *f.APIKey)
			}
		})
	}
}

func TestFormDataValidate(t *testing.T) {
	assert.NoError(t, FormData{Name: "Work", Provider: "openai"}.Validate())
	assert.Error(t, FormData{Provider: "openai"}.Validate())
	assert.Error(t, FormData{Name: "Work", Provider: "openai", BaseURL: "not a url"}.Validate())
	assert.Error(t, FormData{Name: "a/b", Provider: "openai"}.Validate())
}

func TestFormPatchClearsKey(t *testing.T) {
	p := FormData{Name: "Work", Provider: "openai"}.Patch()
	require.NotNil(t, p.APIKey)
	assert.Empty(t, *p.APIKey)
	require.NotNil(t, p.BaseURL)
	assert.Empty(t, *p.BaseURL)
	assert.Nil(t, p.Enabled)
}

func TestFormRoundTrip(t *testing.T) {
	key := "sk-1"
	src := models.Source{Name: "Work", Provider: models.ProviderOpenAI, Model: "gpt-4o", BaseURL: "https://x.test/v1", APIKey: &key}

	inputs := FormInputs()
	SetFormData(inputs, FormDataFromSource(src))
	assert.Equal(t, FormDataFromSource(src), GetFormData(inputs))
}

func TestFormFocusWraps(t *testing.T) {
	inputs := FormInputs()
	assert.Equal(t, FormFieldProvider, NextFormField(inputs, FormFieldName))
	assert.Equal(t, FormFieldName, NextFormField(inputs, FormFieldAPIKey))
	assert.Equal(t, FormFieldAPIKey, PrevFormField(inputs, FormFieldName))
	assert.Len(t, FormLabels(), FormFieldCount)
	assert.Len(t, FormHints(), FormFieldCount)
}
