package lyrics

import "strings"

var rtlLanguages = map[string]bool{
	"ar": true, // Arabic
	"fa": true, // Persian (Farsi)
	"he": true, // Hebrew
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
	"yi": true, // Yiddish
	"ku": true, // Kurdish (some dialects)
	"dv": true, // Divehi (Maldivian)
}

// IsRTLLanguage checks if a language code is right-to-left. Region subtags
// such as "ar-EG" are ignored.
func IsRTLLanguage(langCode string) bool {
	code := strings.ToLower(strings.TrimSpace(langCode))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return rtlLanguages[code]
}

// DetectLanguage prefers an explicit language tag and otherwise guesses from
// the script of the text. Returns "" when nothing points anywhere.
func DetectLanguage(tag string, content string) string {
	if tag != "" {
		return normalizeLanguageCode(tag)
	}

	// Kanji share the Han block with Chinese, so any kana makes it Japanese
	first := ""
	for _, r := range content {
		lang := ""
		switch {
		case r >= '\u3040' && r <= '\u30ff': // Hiragana, Katakana
			return "ja"
		case r >= '\u4e00' && r <= '\u9fff':
			lang = "zh"
		case r >= '\uac00' && r <= '\ud7af':
			lang = "ko"
		case r >= '\u0590' && r <= '\u05ff':
			lang = "he"
		case r >= '\u0600' && r <= '\u06ff':
			lang = "ar"
		}
		if first == "" {
			first = lang
		}
	}
	return first
}

// normalizeLanguageCode normalizes language names to ISO codes
func normalizeLanguageCode(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "英语", "english", "eng":
		return "en"
	case "中文", "chinese", "chi", "普通话", "国语", "粤语":
		return "zh"
	case "日语", "japanese", "jpn":
		return "ja"
	case "韩语", "korean", "kor":
		return "ko"
	case "arabic", "ara":
		return "ar"
	case "hebrew", "heb":
		return "he"
	case "spanish", "spa":
		return "es"
	case "french", "fra":
		return "fr"
	case "german", "ger":
		return "de"
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}
