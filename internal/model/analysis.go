package model

import "time"

type MediaPayload struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type AnalysisHistoryItem struct {
	ID            string        `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	Prompt        string        `json:"prompt"`
	Response      string        `json:"response"`
	StrategicTags []string      `json:"strategicTags"`
	SizingAdvice  string        `json:"sizingAdvice,omitempty"`
	Media         *MediaPayload `json:"media,omitempty"`
}
