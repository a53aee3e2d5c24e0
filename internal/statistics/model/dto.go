// Package model provides data transfer objects for statistics module.
package model

import (
	"github.com/google/uuid"

	registrationModel "github.com/festy23/eventhub/internal/registration/model"
)

// SourceCount is the number of registrations attributed to a utm_source.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// PlatformStatistics represents totals across the whole platform.
type PlatformStatistics struct {
	Users              int64                           `json:"users"`
	Events             int64                           `json:"events"`
	PublishedEvents    int64                           `json:"published_events"`
	Registrations      []registrationModel.StatusCount `json:"registrations"`
	TotalRegistrations int64                           `json:"total_registrations"`
	Teams              int64                           `json:"teams"`
	Projects           int64                           `json:"projects"`
}

// EventStatistics represents the breakdown for a single event.
type EventStatistics struct {
	EventID            uuid.UUID                       `json:"event_id"`
	Registrations      []registrationModel.StatusCount `json:"registrations"`
	TotalRegistrations int64                           `json:"total_registrations"`
	UTMSources         []SourceCount                   `json:"utm_sources"`
	Teams              int64                           `json:"teams"`
	AverageTeamSize    float64                         `json:"average_team_size"`
	Projects           int64                           `json:"projects"`
}

// TeamTotals is the team count and mean member count for a scope.
type TeamTotals struct {
	Teams           int64
	AverageTeamSize float64
}

// DirectSource labels registrations that arrived without a utm_source.
const DirectSource = "direct"
