package models

import "time"

// Snapshot is a named JSON blob persisted by the sqlite snapshot driver.
type Snapshot struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     []byte    `json:"-" gorm:"type:blob"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BackupFile describes a snapshot backup stored on disk.
type BackupFile struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Records   int       `json:"records"`
	CreatedAt time.Time `json:"created_at"`
}
