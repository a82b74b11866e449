package rules

import (
    "testing"
    "time"

    "roombook/internal/models"
)

var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) // Monday

func candidate(startIn, length time.Duration, user models.User) Candidate {
    return Candidate{
        StartTime: testNow.Add(startIn),
        EndTime:   testNow.Add(startIn + length),
        User:      user,
    }
}

func TestEvaluate(t *testing.T) {
    student := models.User{Email: "a@univ.ac.th", Role: "student", Level: 1}
    staff := models.User{Email: "b@univ.ac.th", Role: "staff", Level: 3}

    cases := []struct {
        name     string
        cand     Candidate
        rules    models.RoomRules
        wantCode string
        wantKind string
    }{
        {
            name:  "no rules set allows anything",
            cand:  candidate(time.Hour, 8*time.Hour, student),
            rules: models.RoomRules{},
        },
        {
            name:     "booked 2h ahead against 24h advance notice",
            cand:     candidate(2*time.Hour, 2*time.Hour, student),
            rules:    models.RoomRules{MinAdvanceHours: 24, MaxHoursPerBooking: 4},
            wantCode: CodeAdvanceNotice,
            wantKind: KindValidation,
        },
        {
            name:  "exactly at the advance-notice boundary passes",
            cand:  candidate(24*time.Hour, 2*time.Hour, student),
            rules: models.RoomRules{MinAdvanceHours: 24},
        },
        {
            name:     "duration over the cap",
            cand:     candidate(48*time.Hour, 5*time.Hour, student),
            rules:    models.RoomRules{MaxHoursPerBooking: 4},
            wantCode: CodeMaxDuration,
            wantKind: KindValidation,
        },
        {
            name:  "duration exactly at the cap passes",
            cand:  candidate(48*time.Hour, 4*time.Hour, student),
            rules: models.RoomRules{MaxHoursPerBooking: 4},
        },
        {
            name:     "staff blocked by student-only allowlist",
            cand:     candidate(48*time.Hour, time.Hour, staff),
            rules:    models.RoomRules{AllowedUserType: []string{"student"}},
            wantCode: CodeUserType,
            wantKind: KindPermission,
        },
        {
            name:  "user type in allowlist passes",
            cand:  candidate(48*time.Hour, time.Hour, student),
            rules: models.RoomRules{AllowedUserType: []string{"student", "staff"}},
        },
        {
            name: "email domain not in allowlist",
            cand: candidate(48*time.Hour, time.Hour, models.User{Email: "x@gmail.com", Role: "student"}),
            rules: models.RoomRules{CustomConditions: &models.CustomConditions{
                AllowedEmailDomains: []string{"univ.ac.th"},
            }},
            wantCode: CodeEmailDomain,
            wantKind: KindPermission,
        },
        {
            name: "email domain in allowlist passes",
            cand: candidate(48*time.Hour, time.Hour, student),
            rules: models.RoomRules{CustomConditions: &models.CustomConditions{
                AllowedEmailDomains: []string{"univ.ac.th"},
            }},
        },
        {
            name: "start on a disallowed weekday",
            // testNow+48h is Wednesday in Asia/Bangkok.
            cand: candidate(48*time.Hour, time.Hour, student),
            rules: models.RoomRules{CustomConditions: &models.CustomConditions{
                DisallowedDays: []string{"Wednesday"},
            }},
            wantCode: CodeWeekday,
            wantKind: KindValidation,
        },
        {
            name: "level below the minimum",
            cand: candidate(48*time.Hour, time.Hour, student),
            rules: models.RoomRules{CustomConditions: &models.CustomConditions{
                MinUserLevel: 2,
            }},
            wantCode: CodeUserLevel,
            wantKind: KindPermission,
        },
        {
            name: "level at the minimum passes",
            cand: candidate(48*time.Hour, time.Hour, staff),
            rules: models.RoomRules{CustomConditions: &models.CustomConditions{
                MinUserLevel: 3,
            }},
        },
        {
            name: "advance notice wins over later permission checks",
            cand: candidate(time.Hour, time.Hour, models.User{Email: "x@gmail.com", Role: "guest"}),
            rules: models.RoomRules{
                MinAdvanceHours: 24,
                AllowedUserType: []string{"student"},
                CustomConditions: &models.CustomConditions{
                    AllowedEmailDomains: []string{"univ.ac.th"},
                    MinUserLevel:        5,
                },
            },
            wantCode: CodeAdvanceNotice,
            wantKind: KindValidation,
        },
    }

    for _, tt := range cases {
        t.Run(tt.name, func(t *testing.T) {
            got := Evaluate(tt.cand, tt.rules, testNow)
            if tt.wantCode == "" {
                if got != nil {
                    t.Fatalf("expected allow, got denial %+v", got)
                }
                return
            }
            if got == nil {
                t.Fatalf("expected denial %q, got allow", tt.wantCode)
            }
            if got.Code != tt.wantCode {
                t.Fatalf("expected code %q, got %q", tt.wantCode, got.Code)
            }
            if got.Kind != tt.wantKind {
                t.Fatalf("expected kind %q, got %q", tt.wantKind, got.Kind)
            }
            if got.Message == "" {
                t.Fatalf("denial %q has empty message", got.Code)
            }
        })
    }
}

func TestEmailDomain(t *testing.T) {
    cases := []struct {
        email string
        want  string
    }{
        {"user@example.com", "example.com"},
        {"weird@local@example.org", "example.org"},
        {"no-at-sign", ""},
        {"", ""},
    }
    for _, tt := range cases {
        if got := emailDomain(tt.email); got != tt.want {
            t.Fatalf("emailDomain(%q)=%q, want %q", tt.email, got, tt.want)
        }
    }
}
