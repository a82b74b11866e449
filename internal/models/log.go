package models

import "time"

type LogAction string

const (
    ActionCreateRoom LogAction = "createRoom"
    ActionUpdateRoom LogAction = "updateRoom"
    ActionReserve    LogAction = "reserve"
    ActionApprove    LogAction = "approve"
    ActionCancel     LogAction = "cancel"
)

// Log is the flat action feed shown to organization admins.
type Log struct {
    ID             int64     `gorm:"primaryKey" json:"id"`
    Action         LogAction `gorm:"size:32;not null;index" json:"action"`
    UserID         int64     `gorm:"index;not null" json:"user_id"`
    RoomID         int64     `gorm:"index" json:"room_id"`
    OrganizationID int64     `gorm:"index" json:"organization_id"`
    Timestamp      time.Time `gorm:"index" json:"timestamp"`
    Detail         string    `gorm:"type:text" json:"detail,omitempty"`
}
