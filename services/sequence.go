package services

import (
	"fmt"
	"time"

	"github.com/yeremiapane/ordermenu/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	orderCodePrefix = "OM-"
	sequenceDayFmt  = "20060102"

	// maxAllocationAttempts bounds the generate-and-insert retries on a
	// unique violation or a deadlock.
	maxAllocationAttempts = 3
)

// Clock supplies the current time. Tests replace it to pin dates.
type Clock func() time.Time

// SequenceGenerator hands out date-scoped order codes. Next must run inside
// the transaction that inserts the order.
type SequenceGenerator struct {
	location *time.Location
}

func NewSequenceGenerator(loc *time.Location) *SequenceGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &SequenceGenerator{location: loc}
}

// Allocation is one reserved order code.
type Allocation struct {
	Code     string
	Sequence int
	Day      string
}

// SequenceDay returns the calendar day t falls on in the generator's zone.
func (g *SequenceGenerator) SequenceDay(t time.Time) string {
	return t.In(g.location).Format(sequenceDayFmt)
}

// Next locks today's counter row, reconciles it with the orders already
// stored for the day and reserves the following sequence.
func (g *SequenceGenerator) Next(tx *gorm.DB, now time.Time) (Allocation, error) {
	day := g.SequenceDay(now)

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.OrderSequence{Day: day}).Error; err != nil {
		return Allocation{}, fmt.Errorf("failed to initialise sequence for %s: %w", day, err)
	}

	var counter models.OrderSequence
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("day = ?", day).
		First(&counter).Error; err != nil {
		return Allocation{}, fmt.Errorf("failed to lock sequence for %s: %w", day, err)
	}

	var existing int
	if err := tx.Model(&models.Order{}).
		Where("sequence_date = ?", day).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&existing).Error; err != nil {
		return Allocation{}, fmt.Errorf("failed to read max sequence for %s: %w", day, err)
	}

	next := counter.LastValue
	if existing > next {
		next = existing
	}
	next++

	if err := tx.Model(&models.OrderSequence{}).
		Where("day = ?", day).
		Update("last_value", next).Error; err != nil {
		return Allocation{}, fmt.Errorf("failed to advance sequence for %s: %w", day, err)
	}

	return Allocation{
		Code:     FormatOrderCode(day, next),
		Sequence: next,
		Day:      day,
	}, nil
}

// FormatOrderCode renders OM-YYYYMMDDNNNNN for a YYYYMMDD day.
func FormatOrderCode(day string, sequence int) string {
	return fmt.Sprintf("%s%s%05d", orderCodePrefix, day, sequence)
}
