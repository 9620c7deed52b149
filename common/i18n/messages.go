package i18n

import (
	"os"
	"strings"
)

// Language represents supported languages
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

// AllMessages holds all translatable strings grouped by module
type AllMessages struct {
	App     AppMessages
	Common  CommonMessages
	Extract ExtractMessages
	List    ListMessages
	Inspect InspectMessages
	Verify  VerifyMessages
	Dumper  DumperMessages
}

// CurrentLanguage holds the current language setting
var CurrentLanguage Language = English

// I18nMsg holds the current message set
var I18nMsg = EnglishAllMessages

// English messages
var EnglishAllMessages = AllMessages{
	App:     EnglishAppMessages,
	Common:  EnglishCommonMessages,
	Extract: EnglishExtractMessages,
	List:    EnglishListMessages,
	Inspect: EnglishInspectMessages,
	Verify:  EnglishVerifyMessages,
	Dumper:  EnglishDumperMessages,
}

// Chinese messages
var ChineseAllMessages = AllMessages{
	App:     ChineseAppMessages,
	Common:  ChineseCommonMessages,
	Extract: ChineseExtractMessages,
	List:    ChineseListMessages,
	Inspect: ChineseInspectMessages,
	Verify:  ChineseVerifyMessages,
	Dumper:  ChineseDumperMessages,
}

// DetectLanguage picks a language from LC_ALL, LC_MESSAGES, LANGUAGE and LANG,
// in that order of precedence.
func DetectLanguage() Language {
	for _, envVar := range []string{"LC_ALL", "LC_MESSAGES", "LANGUAGE", "LANG"} {
		lang := strings.ToLower(os.Getenv(envVar))
		if lang == "" {
			continue
		}
		if strings.HasPrefix(lang, "zh") || strings.Contains(lang, "chinese") {
			return Chinese
		}
		return English
	}
	return English
}

// SetLanguage sets the current language and updates messages
func SetLanguage(lang Language) {
	CurrentLanguage = lang
	switch lang {
	case Chinese:
		I18nMsg = ChineseAllMessages
	default:
		I18nMsg = EnglishAllMessages
	}
}

// InitLanguage initializes the language system
func InitLanguage() {
	SetLanguage(DetectLanguage())
}

// IsChineseEnvironment returns true if the current language is Chinese
func IsChineseEnvironment() bool {
	return CurrentLanguage == Chinese
}
