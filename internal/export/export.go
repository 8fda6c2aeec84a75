// Package export renders a library as MyAnimeList-import-compatible XML.
package export

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/animotheque/animotheque/internal/models"
)

// XML serializes the entries as an indented MAL export document.
func XML(animes []models.Anime) ([]byte, error) {
	doc := Document(animes)
	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return data, nil
}

// Document builds the export tree.
func Document(animes []models.Anime) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("myanimelist")

	info := root.CreateElement("myinfo")
	info.CreateElement("user_export_type").SetText("1")
	info.CreateElement("user_total_anime").SetText(strconv.Itoa(len(animes)))

	for _, anime := range animes {
		entry := root.CreateElement("anime")
		entry.CreateElement("series_title").SetText(anime.Title)
		episodes := 0
		if anime.Episode != nil {
			episodes = *anime.Episode
		}
		entry.CreateElement("my_watched_episodes").SetText(strconv.Itoa(episodes))
		entry.CreateElement("my_status").SetText(exportStatus(anime.Status))
		entry.CreateElement("my_finish_date").SetText(anime.WatchDate)
		if anime.LastEpisode != "" {
			entry.CreateElement("my_comments").SetText(anime.LastEpisode)
		}
	}
	return doc
}

func exportStatus(status string) string {
	switch status {
	case models.StatusFinished:
		return "Completed"
	case models.StatusUpcoming:
		return "Plan to Watch"
	default:
		return "Watching"
	}
}
