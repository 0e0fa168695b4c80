package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TermsAcceptance records the latest terms-of-service version a session has
// accepted. Keyed by session id; it shares the store's persistence boundary
// but is unrelated to the revision chain.
type TermsAcceptance struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	SessionID    string `gorm:"type:varchar(100);not null;uniqueIndex:idx_terms_session" json:"-"`
	TermsVersion int    `gorm:"not null" json:"acceptedTermsVersion"`
}

// TableName specifies the table name.
func (TermsAcceptance) TableName() string {
	return "terms_acceptances"
}

// GetAcceptedTermsVersion returns the terms version accepted by a session,
// and whether the session has accepted any at all.
func GetAcceptedTermsVersion(db *gorm.DB, sessionID string) (int, bool, error) {
	var ta TermsAcceptance
	err := db.Where("session_id = ?", sessionID).First(&ta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return ta.TermsVersion, true, nil
}

// UpsertTermsAcceptance records a terms acceptance for a session, replacing
// any earlier acceptance.
func UpsertTermsAcceptance(db *gorm.DB, sessionID string, version int) error {
	ta := TermsAcceptance{SessionID: sessionID, TermsVersion: version}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"terms_version", "updated_at"}),
	}).Create(&ta).Error
}
