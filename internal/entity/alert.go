package entity

import (
	"time"
)

// Alert 已触发的告警及其推送结果, 只写不读回
type Alert struct {
	Id         int64  `gorm:"primaryKey;autoIncrement"`
	EventId    string `gorm:"uniqueIndex;size:36"`
	Exchange   string `gorm:"index"`
	Instrument string `gorm:"index"`
	Kind       string `gorm:"index"`
	Previous   string
	Current    string
	ChangePct  string
	Threshold  string
	Message    string
	Error      string
	Status     int       `gorm:"index"`
	CreatedAt  time.Time `gorm:"index"`
}

const (
	AlertStatusDelivered = 1
	AlertStatusFailed    = 2
)
