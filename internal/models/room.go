package models

import (
    "time"

    "gorm.io/datatypes"
)

// CustomConditions is the optional extension block of a room's rule set.
// A zero/empty field means the condition is not enforced.
type CustomConditions struct {
    AllowedEmailDomains []string `json:"allowedEmailDomains,omitempty"`
    DisallowedDays      []string `json:"disallowedDays,omitempty"`
    MinUserLevel        int      `json:"minUserLevel,omitempty"`
}

// RoomRules constrains who/when/how long a room may be booked.
// Absent fields default to permissive.
type RoomRules struct {
    MinAdvanceHours    int               `json:"minAdvanceHours,omitempty"`
    MaxHoursPerBooking int               `json:"maxHoursPerBooking,omitempty"`
    AllowedUserType    []string          `json:"allowedUserType,omitempty"`
    CustomConditions   *CustomConditions `json:"customConditions,omitempty"`
}

// AvailableDate is a weekly opening window, e.g. {Monday 09:00 18:00}.
type AvailableDate struct {
    DayOfWeek string `json:"dayOfWeek"`
    StartTime string `json:"startTime"`
    EndTime   string `json:"endTime"`
}

// Question is asked to the requester at booking time.
type Question struct {
    Question string `json:"question"`
    Required bool   `json:"required"`
}

// CalendarConfig enables Google Calendar sync for a room's reservations.
type CalendarConfig struct {
    CalendarID  string `json:"calendarId"`
    SyncEnabled bool   `json:"syncEnabled"`
}

type Room struct {
    ID             int64                              `gorm:"primaryKey" json:"id"`
    OrganizationID int64                              `gorm:"index;not null" json:"organization_id"`
    Name           string                             `gorm:"size:200;not null" json:"name"`
    Description    string                             `gorm:"type:text" json:"description,omitempty"`
    Location       string                             `gorm:"size:255" json:"location,omitempty"`
    Capacity       int                                `gorm:"not null" json:"capacity"`
    NeedApproval   bool                               `gorm:"default:false" json:"need_approval"`
    AvailableDates datatypes.JSONSlice[AvailableDate] `json:"available_dates"`
    Rules          datatypes.JSONType[RoomRules]      `json:"rules"`
    QuestionBox    datatypes.JSONSlice[Question]      `json:"question_box"`
    GoogleCalendar datatypes.JSONType[CalendarConfig] `json:"google_calendar"`
    CreatedBy      int64                              `gorm:"index" json:"created_by"`
    CreatedAt      time.Time                          `json:"created_at"`
    UpdatedAt      time.Time                          `json:"updated_at"`

    Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// SyncEnabled reports whether reservations for this room should be
// mirrored to an external calendar.
func (r Room) SyncEnabled() bool {
    cal := r.GoogleCalendar.Data()
    return cal.SyncEnabled && cal.CalendarID != ""
}
