// Package load consumes a filtered batch and persists each record with
// per-row isolation: one row's failure never aborts the run.
package load

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/facultydir/harvester/internal/database"
	"github.com/facultydir/harvester/internal/directory"
	"github.com/facultydir/harvester/internal/metrics"
)

// Skip reasons recorded for rows that are not persisted.
const (
	ReasonMissingName       = "missing name"
	ReasonMissingPosition   = "missing position"
	ReasonInvalidDepartment = "invalid department"
	ReasonMissingEmail      = "missing email"
	ReasonDuplicateEmail    = "duplicate email"
)

// StaffStore persists one cleaned row inside its own transaction.
type StaffStore interface {
	Insert(ctx context.Context, row database.StaffRow) error
}

// Counters is the pipeline's terminal observable result.
type Counters struct {
	Inserted         int
	SkippedDuplicate int
	SkippedInvalid   int
	Failed           int
}

// Config controls pipeline behavior.
type Config struct {
	// TimeslotsPerHour is the scheduling-granularity default written
	// with every row.
	TimeslotsPerHour int
}

// Pipeline validates, relocates photos for, and persists records.
type Pipeline struct {
	store       StaffStore
	relocator   ImageRelocator
	departments directory.Departments
	cfg         Config
	logger      *zap.Logger
}

// NewPipeline constructs a Pipeline.
func NewPipeline(
	store StaffStore,
	relocator ImageRelocator,
	departments directory.Departments,
	cfg Config,
	logger *zap.Logger,
) (*Pipeline, error) {
	if store == nil {
		return nil, fmt.Errorf("staff store is required")
	}
	if relocator == nil {
		return nil, fmt.Errorf("relocator is required")
	}
	if cfg.TimeslotsPerHour <= 0 {
		cfg.TimeslotsPerHour = 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		store:       store,
		relocator:   relocator,
		departments: departments,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// Run processes records starting at the startAt offset; rows before it
// are skipped unconditionally and produce no side effects. Processing
// stops between rows when ctx is canceled, so an in-flight row always
// commits or rolls back before the run returns.
func (p *Pipeline) Run(ctx context.Context, records []directory.Record, startAt int) (Counters, error) {
	if startAt < 0 {
		startAt = 0
	}
	var counters Counters
	for index := startAt; index < len(records); index++ {
		if err := ctx.Err(); err != nil {
			return counters, fmt.Errorf("load interrupted at row %d: %w", index, err)
		}
		p.processRow(ctx, index, records[index], &counters)
	}
	p.logger.Info("load finished",
		zap.Int("start_at", startAt),
		zap.Int("inserted", counters.Inserted),
		zap.Int("skipped_duplicate", counters.SkippedDuplicate),
		zap.Int("skipped_invalid", counters.SkippedInvalid),
		zap.Int("failed", counters.Failed),
	)
	return counters, nil
}

func (p *Pipeline) processRow(ctx context.Context, index int, rec directory.Record, counters *Counters) {
	row, reason := p.buildRow(rec)
	if reason != "" {
		counters.SkippedInvalid++
		metrics.RowSkipped(reason)
		p.logger.Warn("row skipped",
			zap.Int("row", index),
			zap.String("name", rec.Name.Value()),
			zap.String("reason", reason),
		)
		return
	}

	relocation := p.relocator.Relocate(ctx, row.Name, rec.ImageSourceURL)
	if !relocation.Omitted() {
		row.PhotoURL = &relocation.URL
	}

	err := p.store.Insert(ctx, row)
	switch {
	case err == nil:
		counters.Inserted++
		metrics.RowInserted()
		p.logger.Info("row inserted",
			zap.Int("row", index),
			zap.String("name", row.Name),
			zap.Bool("photo", row.PhotoURL != nil),
		)
	case errors.Is(err, database.ErrDuplicateEmail):
		counters.SkippedDuplicate++
		metrics.RowSkipped(ReasonDuplicateEmail)
		p.logger.Warn("row skipped",
			zap.Int("row", index),
			zap.String("name", row.Name),
			zap.String("reason", ReasonDuplicateEmail),
		)
	default:
		counters.Failed++
		metrics.RowFailed()
		p.logger.Error("row failed",
			zap.Int("row", index),
			zap.String("name", row.Name),
			zap.Error(err),
		)
	}
}

// buildRow validates required fields in order (name, position,
// department, email) and returns the cleaned row, or the reason the
// record must be skipped. Optional fields are truncated silently.
func (p *Pipeline) buildRow(rec directory.Record) (database.StaffRow, string) {
	name, ok := rec.Name.Get()
	if !ok {
		return database.StaffRow{}, ReasonMissingName
	}
	position, ok := rec.Position.Truncate(directory.MaxPositionLen).Get()
	if !ok {
		return database.StaffRow{}, ReasonMissingPosition
	}
	department, ok := p.departments.Canonical(rec.Department.Value())
	if !ok {
		return database.StaffRow{}, ReasonInvalidDepartment
	}
	email, ok := rec.Email.Get()
	if !ok {
		return database.StaffRow{}, ReasonMissingEmail
	}

	return database.StaffRow{
		Name:             name,
		Title:            optional(rec.Title.Truncate(directory.MaxTitleLen)),
		Position:         position,
		Department:       department,
		OfficeLocation:   optional(rec.OfficeLocation.Truncate(directory.MaxOfficeLocationLen)),
		Phone:            optional(rec.Phone.Truncate(directory.MaxPhoneLen)),
		Email:            email,
		TimeslotsPerHour: p.cfg.TimeslotsPerHour,
	}, ""
}

func optional(f directory.Field) *string {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return &v
}
