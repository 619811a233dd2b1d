package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyCodeCounter hands out per-day sequence numbers for document codes.
// One row per (scope, day); the upsert below bumps last_seq atomically so two
// concurrent transactions never read the same value.
type DailyCodeCounter struct {
	ID      int    `gorm:"primary_key" json:"id"`
	Scope   string `gorm:"size:10;not null;uniqueIndex:idx_code_scope_day" json:"scope"`
	Day     string `gorm:"size:8;not null;uniqueIndex:idx_code_scope_day" json:"day"`
	LastSeq int64  `gorm:"not null;default:0" json:"lastSeq"`
}

const (
	codeScopeInvoice  = "INV"
	codeScopePurchase = "PO"
)

// nextDailyCode mints the next document code for scope on now's calendar day,
// e.g. "INV-20260829-0001". Must run inside the caller's transaction so a
// rollback releases the sequence number together with the document.
func nextDailyCode(tx *gorm.DB, scope string, now time.Time) (string, error) {
	day := now.Format("20060102")

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seq": gorm.Expr("last_seq + 1"),
		}),
	}).Create(&DailyCodeCounter{Scope: scope, Day: day, LastSeq: 1}).Error
	if err != nil {
		return "", err
	}

	var counter DailyCodeCounter
	if err := tx.Where("scope = ? AND day = ?", scope, day).Take(&counter).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", scope, day, counter.LastSeq), nil
}
