package validation

import (
	"fmt"

	"provmgr/config/models"
	"provmgr/internal/providers"
)

// Validator validates source fields entered on the command line
type Validator struct {
	input *InputValidator
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{input: NewInputValidator()}
}

// ValidateFields validates the fields of a new source. The key is optional:
// sources may be added first and set up later.
func (v *Validator) ValidateFields(f models.SourceFields) error {
	if err := v.input.ValidateName(f.Name); err != nil {
		return err
	}
	if _, err := providers.Get(f.Provider); err != nil {
		return fmt.Errorf("unknown API provider: %s (supported: %v)", f.Provider, providers.List())
	}
	if err := v.input.ValidateModelName(f.Model); err != nil {
		return err
	}
	return v.input.ValidateURL(f.BaseURL)
}

// ValidatePatch validates the set fields of a patch.
func (v *Validator) ValidatePatch(p models.SourcePatch) error {
	if p.Name != nil {
		if err := v.input.ValidateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Provider != nil {
		if _, err := providers.Get(*p.Provider); err != nil {
			return fmt.Errorf("unknown API provider: %s (supported: %v)", *p.Provider, providers.List())
		}
	}
	if p.Model != nil {
		if err := v.input.ValidateModelName(*p.Model); err != nil {
			return err
		}
	}
	if p.BaseURL != nil {
		return v.input.ValidateURL(*p.BaseURL)
	}
	return nil
}

// ValidateCredential checks that src can be used to call its provider.
// Sources with an unregistered provider only need a key.
func (v *Validator) ValidateCredential(src models.Source) error {
	provider, err := providers.Get(src.Provider)
	if err != nil {
		if !src.HasKey() {
			return fmt.Errorf("%s: must provide API key", src.Provider)
		}
		return nil
	}
	return provider.ValidateConfig(src.BaseURL, src.Key())
}
