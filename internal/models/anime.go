package models

// Anime represents one tracked entry in a user's library.
// Field names on the wire match what the web client sends.
type Anime struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	LastEpisode string `json:"lastEpisode"`
	Episode     *int   `json:"episode"`
	WatchDate   string `json:"watchDate"`
	Status      string `json:"status"`
	Image       string `json:"image,omitempty"`
	Sortie      string `json:"sortie,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// Conventional status values. The server stores status as free text and
// does not validate against this set.
const (
	StatusFinished = "fini"
	StatusUpcoming = "saison à venir"
	StatusNoInfo   = "pas d'info"
)
