package calendar

import (
    "context"
    "log"
    "time"

    "golang.org/x/oauth2"
    "golang.org/x/oauth2/google"
    gcal "google.golang.org/api/calendar/v3"
    "google.golang.org/api/option"
)

// Client mirrors the two calendar operations the booking flows need.
// An empty event id from CreateEvent means no event was created.
type Client interface {
    CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error)
    DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Event is the reservation projected onto the external calendar.
type Event struct {
    Summary       string
    Description   string
    Start         time.Time
    End           time.Time
    AttendeeEmail string
}

const eventTimeZone = "Asia/Bangkok"

// Google talks to the Google Calendar API with an offline refresh token,
// the same credential shape the web console issues for server apps.
type Google struct {
    svc *gcal.Service
}

type GoogleConfig struct {
    ClientID     string
    ClientSecret string
    RefreshToken string
}

func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Google, error) {
    oc := &oauth2.Config{
        ClientID:     cfg.ClientID,
        ClientSecret: cfg.ClientSecret,
        Endpoint:     google.Endpoint,
        Scopes:       []string{gcal.CalendarScope},
    }
    ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
    svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
    if err != nil {
        return nil, err
    }
    return &Google{svc: svc}, nil
}

func (g *Google) CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error) {
    event := &gcal.Event{
        Summary:     ev.Summary,
        Description: ev.Description,
        Start: &gcal.EventDateTime{
            DateTime: ev.Start.Format(time.RFC3339),
            TimeZone: eventTimeZone,
        },
        End: &gcal.EventDateTime{
            DateTime: ev.End.Format(time.RFC3339),
            TimeZone: eventTimeZone,
        },
        Reminders: &gcal.EventReminders{
            UseDefault: false,
            Overrides: []*gcal.EventReminder{
                {Method: "email", Minutes: 30},
                {Method: "popup", Minutes: 10},
            },
            ForceSendFields: []string{"UseDefault"},
        },
    }
    if ev.AttendeeEmail != "" {
        event.Attendees = []*gcal.EventAttendee{{Email: ev.AttendeeEmail}}
    }

    created, err := g.svc.Events.Insert(calendarID, event).Context(ctx).Do()
    if err != nil {
        return "", err
    }
    return created.Id, nil
}

func (g *Google) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
    return g.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
}

// Disabled is used when Google credentials are not configured.
type Disabled struct{}

func (Disabled) CreateEvent(_ context.Context, calendarID string, ev Event) (string, error) {
    log.Printf("calendar disabled, skipping event create calendar=%s summary=%q", calendarID, ev.Summary)
    return "", nil
}

func (Disabled) DeleteEvent(_ context.Context, calendarID, eventID string) error {
    log.Printf("calendar disabled, skipping event delete calendar=%s event=%s", calendarID, eventID)
    return nil
}
