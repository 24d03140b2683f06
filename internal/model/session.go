package model

const (
	CategoryHandScreenshot = "Hand Screenshot"
	CategoryTableView      = "Table View"
	CategoryPlayerCam      = "Player Cam"
	CategoryAudioNote      = "Audio Note"
)

// TagLiveTracked marks sessions finalized from the live tracker rather than
// entered manually.
const TagLiveTracked = "Live Tracked"

const DateLayout = "2006-01-02"

func ValidCategory(category string) bool {
	switch category {
	case CategoryHandScreenshot, CategoryTableView, CategoryPlayerCam, CategoryAudioNote:
		return true
	}
	return false
}

type MediaAttachment struct {
	ID          string `json:"id"`
	EncodedData string `json:"encodedData"`
	MimeType    string `json:"mimeType"`
	Category    string `json:"category"`
}

type Session struct {
	ID            string            `json:"id"`
	Date          string            `json:"date"`
	Stakes        string            `json:"stakes"`
	Location      string            `json:"location"`
	DurationHours float64           `json:"durationHours"`
	Profit        float64           `json:"profit"`
	Tags          []string          `json:"tags"`
	Notes         string            `json:"notes,omitempty"`
	MediaItems    []MediaAttachment `json:"mediaItems"`
}
