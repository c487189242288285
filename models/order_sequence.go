package models

// OrderSequence is the per-day counter row behind order codes. Day is the
// creation date as YYYYMMDD; LastValue is the highest sequence handed out.
type OrderSequence struct {
	Day       string `gorm:"primaryKey;type:varchar(8)"`
	LastValue int    `gorm:"not null;default:0"`
}
