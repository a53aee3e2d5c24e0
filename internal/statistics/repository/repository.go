// Package repository provides data access layer for statistics module.
package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	registrationModel "github.com/festy23/eventhub/internal/registration/model"
	"github.com/festy23/eventhub/internal/statistics/model"
)

// Repository defines the interface for statistics data access operations.
// A nil eventID aggregates over every event.
type Repository interface {
	// CountProfiles returns the number of accounts.
	CountProfiles(ctx context.Context) (int64, error)

	// CountEvents returns the number of events and how many of them are published.
	CountEvents(ctx context.Context) (total, published int64, err error)

	// RegistrationsByStatus returns registration counts grouped by status.
	RegistrationsByStatus(ctx context.Context, eventID *uuid.UUID) ([]registrationModel.StatusCount, error)

	// RegistrationsBySource returns registration counts grouped by utm_source, largest first.
	RegistrationsBySource(ctx context.Context, eventID uuid.UUID) ([]model.SourceCount, error)

	// TeamTotals returns the number of teams and their mean member count.
	TeamTotals(ctx context.Context, eventID *uuid.UUID) (*model.TeamTotals, error)

	// CountProjects returns the number of projects.
	CountProjects(ctx context.Context, eventID *uuid.UUID) (int64, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

func (r *repository) CountProfiles(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("profiles").Count(&count).Error; err != nil {
		r.logger.Errorw("CountProfiles database error", "error", err)
		return 0, err
	}
	return count, nil
}

func (r *repository) CountEvents(ctx context.Context) (int64, int64, error) {
	var result struct {
		Total     int64 `gorm:"column:total"`
		Published int64 `gorm:"column:published"`
	}

	err := r.db.WithContext(ctx).
		Table("events").
		Select(`
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN is_published THEN 1 ELSE 0 END), 0) as published
		`).
		Scan(&result).Error
	if err != nil {
		r.logger.Errorw("CountEvents database error", "error", err)
		return 0, 0, err
	}
	return result.Total, result.Published, nil
}

func (r *repository) RegistrationsByStatus(
	ctx context.Context,
	eventID *uuid.UUID,
) ([]registrationModel.StatusCount, error) {
	r.logger.Debugw("RegistrationsByStatus called", "event_id", eventID)

	var counts []registrationModel.StatusCount
	err := scoped(r.db.WithContext(ctx).Table("registrations"), eventID).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status ASC").
		Scan(&counts).Error
	if err != nil {
		r.logger.Errorw("RegistrationsByStatus database error", "error", err)
		return nil, err
	}
	return counts, nil
}

func (r *repository) RegistrationsBySource(ctx context.Context, eventID uuid.UUID) ([]model.SourceCount, error) {
	r.logger.Debugw("RegistrationsBySource called", "event_id", eventID)

	var counts []model.SourceCount
	err := r.db.WithContext(ctx).
		Table("registrations").
		Select("COALESCE(NULLIF(utm_source, ''), ?) as source, COUNT(*) as count", model.DirectSource).
		Where("event_id = ?", eventID).
		Group("source").
		Order("count DESC, source ASC").
		Scan(&counts).Error
	if err != nil {
		r.logger.Errorw("RegistrationsBySource database error", "error", err)
		return nil, err
	}

	if counts == nil {
		counts = []model.SourceCount{}
	}
	return counts, nil
}

func (r *repository) TeamTotals(ctx context.Context, eventID *uuid.UUID) (*model.TeamTotals, error) {
	r.logger.Debugw("TeamTotals called", "event_id", eventID)

	var result struct {
		Teams   int64   `gorm:"column:teams"`
		Average float64 `gorm:"column:avg_size"`
	}

	err := scoped(r.db.WithContext(ctx).Table("teams"), eventID, "teams.").
		Select(`
			COUNT(*) as teams,
			COALESCE(AVG(member_counts.member_count), 0) as avg_size
		`).
		Joins(`
			LEFT JOIN (
				SELECT team_id, CAST(COUNT(*) AS REAL) as member_count
				FROM team_members
				GROUP BY team_id
			) member_counts ON teams.id = member_counts.team_id
		`).
		Scan(&result).Error
	if err != nil {
		r.logger.Errorw("TeamTotals database error", "error", err)
		return nil, err
	}

	return &model.TeamTotals{Teams: result.Teams, AverageTeamSize: result.Average}, nil
}

func (r *repository) CountProjects(ctx context.Context, eventID *uuid.UUID) (int64, error) {
	var count int64
	if err := scoped(r.db.WithContext(ctx).Table("projects"), eventID).Count(&count).Error; err != nil {
		r.logger.Errorw("CountProjects database error", "error", err)
		return 0, err
	}
	return count, nil
}

// scoped narrows query to one event when eventID is set.
func scoped(query *gorm.DB, eventID *uuid.UUID, prefix ...string) *gorm.DB {
	if eventID == nil {
		return query
	}
	column := "event_id"
	if len(prefix) > 0 {
		column = prefix[0] + column
	}
	return query.Where(column+" = ?", *eventID)
}
