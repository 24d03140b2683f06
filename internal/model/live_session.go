package model

import "time"

// LiveSession is the single in-progress tracked session. PauseStart is set
// iff IsPaused is true; TotalPaused accumulates only completed pause
// intervals.
type LiveSession struct {
	StartTime     time.Time
	Stakes        string
	Location      string
	CurrentProfit float64
	IsPaused      bool
	PauseStart    *time.Time
	TotalPaused   time.Duration
}

// Elapsed returns active play time as of now. While paused the value is
// frozen at the instant the pause began.
func (s *LiveSession) Elapsed(now time.Time) time.Duration {
	if s.IsPaused && s.PauseStart != nil {
		return s.PauseStart.Sub(s.StartTime) - s.TotalPaused
	}
	return now.Sub(s.StartTime) - s.TotalPaused
}
