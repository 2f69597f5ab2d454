package utils

// NotSet is shown in place of a missing API key.
const NotSet = "(not set)"

// MaskAPIKey masks the API key for display. Keys of eight characters or
// fewer are hidden entirely.
func MaskAPIKey(key string) string {
	if key == "" {
		return NotSet
	}
	r := []rune(key)
	if len(r) <= 8 {
		return "****"
	}
	return string(r[:4]) + "****" + string(r[len(r)-4:])
}

// MaskOptionalKey masks a key that may be unset.
func MaskOptionalKey(key *string) string {
	if key == nil {
		return NotSet
	}
	return MaskAPIKey(*key)
}
