package models

import (
    "time"

    "gorm.io/datatypes"
)

type MemberRole string

const (
    MemberAdmin MemberRole = "admin"
    MemberStaff MemberRole = "staff"
)

// Member links a user to an organization with a staff-side role.
type Member struct {
    UserID int64      `json:"user_id"`
    Role   MemberRole `json:"role"`
}

type Organization struct {
    ID           int64                          `gorm:"primaryKey" json:"id"`
    Name         string                         `gorm:"size:200;not null" json:"name"`
    Description  string                         `gorm:"type:text" json:"description,omitempty"`
    ProfileImage string                         `gorm:"size:512" json:"profile_image,omitempty"`
    CreatedBy    int64                          `gorm:"index" json:"created_by"`
    Members      datatypes.JSONSlice[Member]    `json:"members"`
    CreatedAt    time.Time                      `json:"created_at"`
    UpdatedAt    time.Time                      `json:"updated_at"`
}

// StaffMembers returns members holding an admin or staff role. They are
// the recipients of reservation-created notifications.
func (o Organization) StaffMembers() []Member {
    var out []Member
    for _, m := range o.Members {
        if m.Role == MemberAdmin || m.Role == MemberStaff {
            out = append(out, m)
        }
    }
    return out
}

// HasMember reports whether the user already belongs to the organization.
func (o Organization) HasMember(userID int64) bool {
    for _, m := range o.Members {
        if m.UserID == userID {
            return true
        }
    }
    return false
}
