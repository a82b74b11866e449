package rules

import (
    "fmt"
    "strings"
    "time"

    "roombook/internal/models"
)

// Denial kinds decide the HTTP status a denial maps to: validation
// failures are 400, permission failures 403.
const (
    KindValidation = "validation"
    KindPermission = "permission"
)

// Denial reason codes.
const (
    CodeAdvanceNotice = "advance-notice"
    CodeMaxDuration   = "max-duration"
    CodeUserType      = "user-type"
    CodeEmailDomain   = "email-domain"
    CodeWeekday       = "disallowed-weekday"
    CodeUserLevel     = "user-level"
)

// Denial is a rule-evaluation rejection. It implements error so flows can
// return it directly.
type Denial struct {
    Code    string `json:"code"`
    Kind    string `json:"kind"`
    Message string `json:"message"`
}

func (d *Denial) Error() string { return d.Message }

// Candidate is the booking being evaluated.
type Candidate struct {
    StartTime time.Time
    EndTime   time.Time
    User      models.User
}

// Weekday names are evaluated in the organization's reference timezone.
var referenceZone = func() *time.Location {
    loc, err := time.LoadLocation("Asia/Bangkok")
    if err != nil {
        return time.FixedZone("ICT", 7*60*60)
    }
    return loc
}()

// Evaluate checks the candidate against the room's rule set. It returns
// nil when the booking is allowed, or the first failing check as a
// Denial. It is pure: now is passed in, nothing is read or written
// elsewhere. Absent/zero rule fields are not enforced.
func Evaluate(c Candidate, r models.RoomRules, now time.Time) *Denial {
    if r.MinAdvanceHours > 0 {
        lead := c.StartTime.Sub(now)
        if lead < time.Duration(r.MinAdvanceHours)*time.Hour {
            return &Denial{
                Code:    CodeAdvanceNotice,
                Kind:    KindValidation,
                Message: fmt.Sprintf("reservation must be made at least %d hours in advance", r.MinAdvanceHours),
            }
        }
    }

    if r.MaxHoursPerBooking > 0 {
        if c.EndTime.Sub(c.StartTime) > time.Duration(r.MaxHoursPerBooking)*time.Hour {
            return &Denial{
                Code:    CodeMaxDuration,
                Kind:    KindValidation,
                Message: fmt.Sprintf("reservation may not exceed %d hours", r.MaxHoursPerBooking),
            }
        }
    }

    if len(r.AllowedUserType) > 0 && !containsFold(r.AllowedUserType, string(c.User.Role)) {
        return &Denial{
            Code:    CodeUserType,
            Kind:    KindPermission,
            Message: fmt.Sprintf("user type %q is not allowed to book this room", c.User.Role),
        }
    }

    cond := r.CustomConditions
    if cond == nil {
        return nil
    }

    if len(cond.AllowedEmailDomains) > 0 {
        domain := emailDomain(c.User.Email)
        if !containsFold(cond.AllowedEmailDomains, domain) {
            return &Denial{
                Code:    CodeEmailDomain,
                Kind:    KindPermission,
                Message: fmt.Sprintf("email domain %q is not allowed to book this room", domain),
            }
        }
    }

    if len(cond.DisallowedDays) > 0 {
        day := c.StartTime.In(referenceZone).Weekday().String()
        if containsFold(cond.DisallowedDays, day) {
            return &Denial{
                Code:    CodeWeekday,
                Kind:    KindValidation,
                Message: fmt.Sprintf("room cannot be booked on %s", day),
            }
        }
    }

    if cond.MinUserLevel > 0 && c.User.Level < cond.MinUserLevel {
        return &Denial{
            Code:    CodeUserLevel,
            Kind:    KindPermission,
            Message: fmt.Sprintf("user level %d is below the required level %d", c.User.Level, cond.MinUserLevel),
        }
    }

    return nil
}

// emailDomain is the substring after the last '@'; empty when the
// address has none.
func emailDomain(email string) string {
    i := strings.LastIndex(email, "@")
    if i < 0 {
        return ""
    }
    return email[i+1:]
}

func containsFold(set []string, v string) bool {
    for _, s := range set {
        if strings.EqualFold(s, v) {
            return true
        }
    }
    return false
}
