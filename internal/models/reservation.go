package models

import (
    "time"

    "gorm.io/datatypes"
)

type ReservationStatus string

const (
    StatusPending   ReservationStatus = "pending"
    StatusApproved  ReservationStatus = "approved"
    StatusRejected  ReservationStatus = "rejected"
    StatusCancelled ReservationStatus = "cancelled"
)

// TerminalStatuses are the values updateReservationStatus accepts.
var TerminalStatuses = []ReservationStatus{StatusApproved, StatusRejected, StatusCancelled}

func IsTerminalStatus(s ReservationStatus) bool {
    for _, t := range TerminalStatuses {
        if s == t {
            return true
        }
    }
    return false
}

// QuestionAnswer is captured at creation time and immutable afterwards.
type QuestionAnswer struct {
    Question string `json:"question"`
    Answer   string `json:"answer"`
}

// AssignedStaff is set when a staff member approves the reservation.
type AssignedStaff struct {
    StaffID int64  `json:"staff_id"`
    Name    string `json:"name"`
    Email   string `json:"email"`
}

// ApprovalEntry is one append-only audit record per status transition.
type ApprovalEntry struct {
    ApprovedBy int64             `json:"approved_by"`
    Status     ReservationStatus `json:"status"`
    Timestamp  time.Time         `json:"timestamp"`
    Note       string            `json:"note,omitempty"`
}

type Reservation struct {
    ID             int64                               `gorm:"primaryKey" json:"id"`
    RoomID         int64                               `gorm:"index;not null" json:"room_id"`
    OrganizationID int64                               `gorm:"index;not null" json:"organization_id"`
    UserID         int64                               `gorm:"index;not null" json:"user_id"`
    StartTime      time.Time                           `gorm:"not null" json:"start_time"`
    EndTime        time.Time                           `gorm:"not null" json:"end_time"`
    Status         ReservationStatus                   `gorm:"size:16;default:pending;index" json:"status"`
    QuestionAnswers datatypes.JSONSlice[QuestionAnswer] `json:"question_answers"`
    AssignedStaff  datatypes.JSONType[AssignedStaff]   `json:"assigned_staff"`
    ApprovalLog    datatypes.JSONSlice[ApprovalEntry]  `json:"approval_log"`
    // GoogleCalendarEventID is kept so the event can be torn down when
    // the reservation is rejected or cancelled.
    GoogleCalendarEventID string    `gorm:"size:255" json:"google_calendar_event_id,omitempty"`
    CreatedAt             time.Time `json:"created_at"`
    UpdatedAt             time.Time `json:"updated_at"`

    Room         *Room         `gorm:"foreignKey:RoomID" json:"room,omitempty"`
    Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
    User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
