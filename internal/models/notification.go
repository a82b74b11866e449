package models

import (
    "time"

    "gorm.io/datatypes"
)

type NotificationEvent string

const (
    EventReserveCreated   NotificationEvent = "reserve_created"
    EventReserveApproved  NotificationEvent = "reserve_approved"
    EventReserveRejected  NotificationEvent = "reserve_rejected"
    EventReserveCancelled NotificationEvent = "reserve_cancelled"
)

type NotificationStatus string

const (
    NotificationSent   NotificationStatus = "sent"
    NotificationFailed NotificationStatus = "failed"
)

// Sender identifies who triggered the notification.
type Sender struct {
    UserID int64  `json:"user_id"`
    Name   string `json:"name"`
    Email  string `json:"email"`
}

// Notification is a fire-and-forget record; failing to create one must
// never fail the reservation operation that produced it.
type Notification struct {
    ID             int64                      `gorm:"primaryKey" json:"id"`
    RecipientID    int64                      `gorm:"index;not null" json:"recipient_id"`
    OrganizationID int64                      `gorm:"index" json:"organization_id"`
    RoomID         int64                      `gorm:"index" json:"room_id"`
    ReservationID  int64                      `gorm:"index" json:"reservation_id"`
    Event          NotificationEvent          `gorm:"size:32;not null" json:"event"`
    Subject        string                     `gorm:"size:255" json:"subject"`
    Body           string                     `gorm:"type:text" json:"body"`
    Sender         datatypes.JSONType[Sender] `json:"sender"`
    // BatchRef correlates the notifications fanned out by one dispatch.
    BatchRef  string             `gorm:"size:36;index" json:"batch_ref"`
    Status    NotificationStatus `gorm:"size:16;default:sent" json:"status"`
    SentAt    *time.Time         `json:"sent_at,omitempty"`
    CreatedAt time.Time          `json:"created_at"`
    UpdatedAt time.Time          `json:"updated_at"`

    Recipient    *User         `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
    Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
    Room         *Room         `gorm:"foreignKey:RoomID" json:"room,omitempty"`
    Reservation  *Reservation  `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
}
