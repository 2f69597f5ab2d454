package tui

import (
	"strings"

	"provmgr/config/models"
	"provmgr/config/validation"
	"provmgr/internal/providers"

	"github.com/charmbracelet/bubbles/textinput"
)

// Form field indexes
const (
	FormFieldName = iota
	FormFieldProvider
	FormFieldModel
	FormFieldBaseURL
	FormFieldAPIKey
	FormFieldCount
)

// FormData represents the data collected from the form
type FormData struct {
	Name     string
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// Validate checks the form with the same rules as the add command.
func (f FormData) Validate() error {
	return validation.NewValidator().ValidateFields(f.Fields())
}

// Fields converts the form into registry fields for a new source.
func (f FormData) Fields() models.SourceFields {
	fields := models.SourceFields{
		Name:     strings.TrimSpace(f.Name),
		Provider: models.NormalizeProvider(f.Provider),
		Model:    strings.TrimSpace(f.Model),
		BaseURL:  strings.TrimSpace(f.BaseURL),
	}
	if fields.Model == "" {
		if p, err := providers.Get(fields.Provider); err == nil {
			fields.Model = p.DefaultModel()
		}
	}
	if key := strings.TrimSpace(f.APIKey); key != "" {
		fields.APIKey = &key
		fields.Enabled = true
	}
	return fields
}

// Patch converts the form into a full update. An empty key clears it and an
// empty base URL restores the provider default.
func (f FormData) Patch() models.SourcePatch {
	fields := f.Fields()
	key := strings.TrimSpace(f.APIKey)
	return models.SourcePatch{
		Name:     &fields.Name,
		Provider: &fields.Provider,
		Model:    &fields.Model,
		BaseURL:  &fields.BaseURL,
		APIKey:   &key,
	}
}

// FormDataFromSource fills the form from an existing source.
func FormDataFromSource(src models.Source) FormData {
	return FormData{
		Name:     src.Name,
		Provider: string(src.Provider),
		Model:    src.Model,
		BaseURL:  src.BaseURL,
		APIKey:   src.Key(),
	}
}

// FormInputs creates and initializes form input fields
func FormInputs() []textinput.Model {
	inputs := make([]textinput.Model, FormFieldCount)
	placeholders := []string{"Work account", "openai", "gpt-4o-mini", "https://api.openai.com/v1", "sk-..."}
	limits := []int{50, 32, 128, 256, 256}

	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = limits[i]
		inputs[i].Width = 40
		inputs[i].Prompt = ""
	}
	inputs[FormFieldAPIKey].EchoMode = textinput.EchoPassword
	inputs[FormFieldAPIKey].EchoCharacter = '•'

	inputs[FormFieldName].Focus()
	return inputs
}

// GetFormData extracts FormData from form inputs
func GetFormData(inputs []textinput.Model) FormData {
	return FormData{
		Name:     inputs[FormFieldName].Value(),
		Provider: inputs[FormFieldProvider].Value(),
		Model:    inputs[FormFieldModel].Value(),
		BaseURL:  inputs[FormFieldBaseURL].Value(),
		APIKey:   inputs[FormFieldAPIKey].Value(),
	}
}

// SetFormData populates form inputs with existing data
func SetFormData(inputs []textinput.Model, data FormData) {
	inputs[FormFieldName].SetValue(data.Name)
	inputs[FormFieldProvider].SetValue(data.Provider)
	inputs[FormFieldModel].SetValue(data.Model)
	inputs[FormFieldBaseURL].SetValue(data.BaseURL)
	inputs[FormFieldAPIKey].SetValue(data.APIKey)
}

// FormLabels returns the labels for each form field
func FormLabels() []string {
	return []string{"Name:", "Provider:", "Model:", "Base URL:", "API Key:"}
}

// FormHints returns the hint text for each form field
func FormHints() []string {
	return []string{
		"shown in lists, max 50 characters",
		"openai or gemini",
		"empty for the provider default",
		"empty for the provider default endpoint",
		"empty to leave unset",
	}
}

// NextFormField moves focus to the next form field
func NextFormField(inputs []textinput.Model, currentFocus int) int {
	inputs[currentFocus].Blur()
	nextFocus := (currentFocus + 1) % len(inputs)
	inputs[nextFocus].Focus()
	return nextFocus
}

// PrevFormField moves focus to the previous form field
func PrevFormField(inputs []textinput.Model, currentFocus int) int {
	inputs[currentFocus].Blur()
	prevFocus := currentFocus - 1
	if prevFocus < 0 {
		prevFocus = len(inputs) - 1
	}
	inputs[prevFocus].Focus()
	return prevFocus
}
