package client

import (
	"time"

	"github.com/animotheque/animotheque/internal/models"
)

// japaneseToEnglish maps stored romaji titles to the English titles shown
// in the table.
var japaneseToEnglish = map[string]string{
	"Shingeki no Kyojin":            "Attack on Titan",
	"Kimetsu no Yaiba":              "Demon Slayer",
	"Boku no Hero Academia":         "My Hero Academia",
	"Nanatsu no Taizai":             "The Seven Deadly Sins",
	"Hagane no Renkinjutsushi":      "Fullmetal Alchemist",
	"Kimi no Na wa.":                "Your Name",
	"Sen to Chihiro no Kamikakushi": "Spirited Away",
}

// DisplayTitle translates a stored title for display when a translation
// is known, and returns it unchanged otherwise.
func DisplayTitle(title string) string {
	if english, ok := japaneseToEnglish[title]; ok {
		return english
	}
	return title
}

// FormatStatus renders the stored status value as its display label.
// Unknown values pass through untouched, the server stores them as-is.
func FormatStatus(status string) string {
	switch status {
	case models.StatusFinished:
		return "Terminé"
	case models.StatusUpcoming:
		return "Saison à venir"
	case models.StatusNoInfo:
		return "Pas d'information"
	default:
		return status
	}
}

var watchDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

// FormatWatchDate renders a stored watch date as dd/mm/yyyy, or "-" when
// the value is empty or not a recognizable date.
func FormatWatchDate(watchDate string) string {
	if watchDate == "" {
		return "-"
	}
	for _, layout := range watchDateLayouts {
		if t, err := time.Parse(layout, watchDate); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return "-"
}
