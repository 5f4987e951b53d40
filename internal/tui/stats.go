package tui

import (
	"fmt"
	"time"
)

const statsWindow = 30 * time.Second

// stats tracks fetch throughput for the current session.
type stats struct {
	fetchTimes  []time.Time
	totalFetch  int64
	totalMsgs   int64
	lastFetchAt time.Time
}

// record logs a completed message fetch.
func (s *stats) record(t time.Time, msgCount int) {
	s.fetchTimes = append(s.fetchTimes, t)
	s.totalFetch++
	s.totalMsgs += int64(msgCount)
	s.lastFetchAt = t
}

// fetchesPerMin returns the fetch rate over the rolling window.
func (s *stats) fetchesPerMin(now time.Time) float64 {
	cutoff := now.Add(-statsWindow)

	// Trim expired entries
	i := 0
	for i < len(s.fetchTimes) && s.fetchTimes[i].Before(cutoff) {
		i++
	}
	s.fetchTimes = s.fetchTimes[i:]

	if len(s.fetchTimes) == 0 {
		return 0
	}

	elapsed := now.Sub(s.fetchTimes[0]).Seconds()
	if elapsed < 1 {
		elapsed = 1
	}
	return float64(len(s.fetchTimes)) / elapsed * 60
}

// avgBatch returns the average number of messages per fetch.
func (s *stats) avgBatch() int64 {
	if s.totalFetch == 0 {
		return 0
	}
	return s.totalMsgs / s.totalFetch
}

func formatRate(rate float64) string {
	return fmt.Sprintf("%.1f fetches/min", rate)
}
