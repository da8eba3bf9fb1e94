package testrounds

import (
	"encoding/json"
	"time"
)

// Config holds configuration for a load run against a running server.
type Config struct {
	BaseURL       string        // Base URL of the service
	Users         int           // Number of synthetic players
	RoundsPerUser int           // Rounds submitted per player
	Workers       int           // Number of concurrent submitters
	Timeout       time.Duration // HTTP request timeout
	Retries       int           // Retries per request on connection errors and 5xx
	Rate          float64       // Round submissions per second, 0 for unlimited
	Settle        time.Duration // Wait between submission and analysis
	Seed          uint64        // Generator seed
	Verbose       bool          // Log every request
}

// Stats holds load run statistics.
type Stats struct {
	RoundsGenerated int
	RoundsSubmitted int
	RoundsAccepted  int
	RoundsFailed    int
	Analyses        int
	LeaksFound      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// ackResponse is the body of an accepted round.
type ackResponse struct {
	Status  string `json:"status"`
	RoundID string `json:"round_id"`
}

// analysisResponse holds the fields of an analysis report the run checks.
type analysisResponse struct {
	UserID  string            `json:"user_id"`
	Metrics []json.RawMessage `json:"metrics"`
	Leaks   []struct {
		ID string `json:"id"`
	} `json:"leaks"`
	Skill struct {
		NRounds    int    `json:"n_rounds"`
		Confidence string `json:"confidence"`
	} `json:"skill"`
}
