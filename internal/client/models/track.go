package models

// Track describes a song a user is currently playing.
type Track struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Genre       string `json:"genre"`
	DurationSec int    `json:"duration"`
	CoverURL    string `json:"coverUrl,omitempty"`
}
