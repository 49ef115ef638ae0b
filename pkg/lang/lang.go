// Package lang holds the table of languages lingo can translate between.
package lang

import "github.com/papercomputeco/lingo/pkg/llm"

// Language is a supported language code and the name used in prompts.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Codes with special prompt handling.
const (
	Auto               = "auto"
	SimplifiedChinese  = "zh-Hans"
	TraditionalChinese = "zh-Hant"
	Cantonese          = "yue"
	ClassicalChinese   = "wyw"
)

// table is ordered as it is listed to users.
var table = []Language{
	{Auto, "auto"},
	{SimplifiedChinese, "简体中文"},
	{TraditionalChinese, "繁體中文"},
	{Cantonese, "粤语"},
	{ClassicalChinese, "文言文"},
	{"en", "English"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"fr", "French"},
	{"de", "German"},
	{"es", "Spanish"},
	{"it", "Italian"},
	{"ru", "Russian"},
	{"pt", "Portuguese"},
	{"nl", "Dutch"},
	{"pl", "Polish"},
	{"ar", "Arabic"},
	{"af", "Afrikaans"},
	{"am", "Amharic"},
	{"az", "Azerbaijani"},
	{"be", "Belarusian"},
	{"bg", "Bulgarian"},
	{"bn", "Bengali"},
	{"bs", "Bosnian"},
	{"ca", "Catalan"},
	{"ceb", "Cebuano"},
	{"co", "Corsican"},
	{"cs", "Czech"},
	{"cy", "Welsh"},
	{"da", "Danish"},
	{"el", "Greek"},
	{"eo", "Esperanto"},
	{"et", "Estonian"},
	{"eu", "Basque"},
	{"fa", "Persian"},
	{"fi", "Finnish"},
	{"fj", "Fijian"},
	{"fy", "Frisian"},
	{"ga", "Irish"},
	{"gd", "Scottish Gaelic"},
	{"gl", "Galician"},
	{"gu", "Gujarati"},
	{"ha", "Hausa"},
	{"haw", "Hawaiian"},
	{"he", "Hebrew"},
	{"hi", "Hindi"},
	{"hmn", "Hmong"},
	{"hr", "Croatian"},
	{"ht", "Haitian Creole"},
	{"hu", "Hungarian"},
	{"hy", "Armenian"},
	{"id", "Indonesian"},
	{"ig", "Igbo"},
	{"is", "Icelandic"},
	{"jw", "Javanese"},
	{"ka", "Georgian"},
	{"kk", "Kazakh"},
	{"km", "Khmer"},
	{"kn", "Kannada"},
	{"ku", "Kurdish"},
	{"ky", "Kyrgyz"},
	{"lb", "Luxembourgish"},
	{"lo", "Lao"},
	{"lt", "Lithuanian"},
	{"lv", "Latvian"},
	{"mg", "Malagasy"},
	{"mi", "Maori"},
	{"mk", "Macedonian"},
	{"ml", "Malayalam"},
	{"mn", "Mongolian"},
	{"mr", "Marathi"},
	{"ms", "Malay"},
	{"mt", "Maltese"},
	{"my", "Burmese"},
	{"ne", "Nepali"},
	{"no", "Norwegian"},
	{"ny", "Chichewa"},
	{"pa", "Punjabi"},
	{"ps", "Pashto"},
	{"ro", "Romanian"},
	{"rw", "Kinyarwanda"},
	{"sd", "Sindhi"},
	{"si", "Sinhala"},
	{"sk", "Slovak"},
	{"sl", "Slovenian"},
	{"sm", "Samoan"},
	{"sn", "Shona"},
	{"so", "Somali"},
	{"sq", "Albanian"},
	{"sr", "Serbian"},
	{"sr-Cyrl", "Serbian (Cyrillic)"},
	{"sr-Latn", "Serbian (Latin)"},
	{"st", "Sesotho"},
	{"su", "Sundanese"},
	{"sv", "Swedish"},
	{"sw", "Swahili"},
	{"ta", "Tamil"},
	{"te", "Telugu"},
	{"tg", "Tajik"},
	{"th", "Thai"},
	{"tk", "Turkmen"},
	{"tl", "Filipino"},
	{"tr", "Turkish"},
	{"tt", "Tatar"},
	{"ug", "Uyghur"},
	{"uk", "Ukrainian"},
	{"ur", "Urdu"},
	{"uz", "Uzbek"},
	{"vi", "Vietnamese"},
	{"xh", "Xhosa"},
	{"yi", "Yiddish"},
	{"yo", "Yoruba"},
	{"zu", "Zulu"},
}

var byCode = func() map[string]string {
	m := make(map[string]string, len(table))
	for _, l := range table {
		m[l.Code] = l.Name
	}
	return m
}()

// Supported returns every supported language in display order.
func Supported() []Language {
	out := make([]Language, len(table))
	copy(out, table)
	return out
}

// IsSupported reports whether code is in the table.
func IsSupported(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Name returns the prompt name for code, or code itself when unknown.
func Name(code string) string {
	if name, ok := byCode[code]; ok {
		return name
	}
	return code
}

// CheckTarget returns an unsupportedLanguage error when code cannot be
// translated into.
func CheckTarget(code string) error {
	if code == Auto || !IsSupported(code) {
		return llm.NewServiceError(llm.ErrorUnsupportedLanguage, "不支持该语种").WithAddition(code)
	}
	return nil
}
