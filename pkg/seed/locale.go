package seed

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// message keys for the root folder titles.
const (
	msgRoot    = "Root"
	msgMobile  = "Mobile Bookmarks"
	msgMenu    = "Bookmarks Menu"
	msgToolbar = "Bookmarks Toolbar"
	msgUnfiled = "Unsorted Bookmarks"
)

var supported = []language.Tag{
	language.English, // first entry is the fallback
	language.Spanish,
	language.French,
	language.German,
}

var matcher = language.NewMatcher(supported)

var translations = map[language.Tag]map[string]string{
	language.Spanish: {
		msgRoot:    "Raíz",
		msgMobile:  "Marcadores del móvil",
		msgMenu:    "Menú de marcadores",
		msgToolbar: "Barra de marcadores",
		msgUnfiled: "Marcadores sin clasificar",
	},
	language.French: {
		msgRoot:    "Racine",
		msgMobile:  "Marque-pages mobiles",
		msgMenu:    "Menu des marque-pages",
		msgToolbar: "Barre personnelle",
		msgUnfiled: "Autres marque-pages",
	},
	language.German: {
		msgRoot:    "Stammordner",
		msgMobile:  "Mobile Lesezeichen",
		msgMenu:    "Lesezeichen-Menü",
		msgToolbar: "Lesezeichen-Symbolleiste",
		msgUnfiled: "Weitere Lesezeichen",
	},
}

func init() {
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Match returns the supported language closest to tag.
func Match(tag language.Tag) language.Tag {
	_, i, _ := matcher.Match(tag)
	return supported[i]
}

// ParseLocale parses a BCP 47 tag such as "es-AR" and matches it against the
// supported languages. An empty or malformed value yields English.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return language.English
	}

	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}

	return Match(tag)
}
