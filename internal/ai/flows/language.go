package flows

const DefaultLanguage = "en"

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"mr": "Marathi",
	"ta": "Tamil",
	"te": "Telugu",
	"kn": "Kannada",
	"bn": "Bengali",
	"gu": "Gujarati",
	"pa": "Punjabi",
}

// LanguageName maps a supported language code to the name used in prompts.
// Unknown or empty codes resolve to English.
func LanguageName(code string) string {
	if n, ok := languageNames[code]; ok {
		return n
	}
	return languageNames[DefaultLanguage]
}

func langOrDefault(code string) string {
	if code == "" {
		return DefaultLanguage
	}
	return code
}
