package booking

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"
    "gorm.io/datatypes"
    "gorm.io/gorm"

    "roombook/internal/calendar"
    "roombook/internal/mail"
    "roombook/internal/models"
    "roombook/internal/rules"
)

var (
    ErrRoomNotFound        = errors.New("room not found")
    ErrUserNotFound        = errors.New("user not found")
    ErrReservationNotFound = errors.New("reservation not found")
    ErrInvalidStatus       = errors.New("invalid status value")
)

// attributeCancelToOwner reproduces the original system's behavior of
// attributing cancellation audit entries to the reservation's owner even
// when a different actor invokes the cancellation. Likely an intent
// mismatch upstream; kept until product clarifies.
const attributeCancelToOwner = true

// Service owns the reservation lifecycle: rule-checked admission, status
// transitions with their audit trail, and the best-effort side-effect
// fan-out (notifications, email, calendar sync) after each change.
type Service struct {
    db   *gorm.DB
    mail mail.Sender
    cal  calendar.Client
    now  func() time.Time
}

func NewService(db *gorm.DB, sender mail.Sender, cal calendar.Client) *Service {
    return &Service{db: db, mail: sender, cal: cal, now: time.Now}
}

type AdmitInput struct {
    RoomID         int64
    OrganizationID int64
    UserID         int64
    StartTime      time.Time
    EndTime        time.Time
    Answers        []models.QuestionAnswer
}

type AdmitResult struct {
    Reservation     *models.Reservation
    NotificationRef string
}

// Admit validates the candidate against the room's rules and creates the
// reservation. A rules.Denial is returned as the error when a rule fails.
// Only the reservation insert is mandatory; everything after it is
// best-effort.
func (s *Service) Admit(ctx context.Context, in AdmitInput) (*AdmitResult, error) {
    var room models.Room
    if err := s.db.WithContext(ctx).First(&room, in.RoomID).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrRoomNotFound
        }
        return nil, err
    }

    var user models.User
    if err := s.db.WithContext(ctx).First(&user, in.UserID).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrUserNotFound
        }
        return nil, err
    }

    cand := rules.Candidate{StartTime: in.StartTime, EndTime: in.EndTime, User: user}
    if denial := rules.Evaluate(cand, room.Rules.Data(), s.now()); denial != nil {
        return nil, denial
    }

    status := models.StatusPending
    if !room.NeedApproval {
        status = models.StatusApproved
    }

    res := models.Reservation{
        RoomID:          in.RoomID,
        OrganizationID:  in.OrganizationID,
        UserID:          in.UserID,
        StartTime:       in.StartTime,
        EndTime:         in.EndTime,
        Status:          status,
        QuestionAnswers: datatypes.NewJSONSlice(in.Answers),
    }
    if err := s.db.WithContext(ctx).Create(&res).Error; err != nil {
        return nil, err
    }

    ref := s.dispatchAdmission(ctx, &res, room, user)
    return &AdmitResult{Reservation: &res, NotificationRef: ref}, nil
}

// Transition sets one of the terminal statuses and appends the audit
// entry. No transition-legality guard beyond the allowed-value check:
// any terminal status overwrites any prior one.
func (s *Service) Transition(ctx context.Context, id int64, status models.ReservationStatus, actor models.User, note string) (*models.Reservation, error) {
    if !models.IsTerminalStatus(status) {
        return nil, ErrInvalidStatus
    }

    var res models.Reservation
    if err := s.db.WithContext(ctx).First(&res, id).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }

    var room models.Room
    if err := s.db.WithContext(ctx).First(&room, res.RoomID).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrRoomNotFound
        }
        return nil, err
    }

    var owner models.User
    if err := s.db.WithContext(ctx).First(&owner, res.UserID).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrUserNotFound
        }
        return nil, err
    }

    approvedBy := actor.ID
    if status == models.StatusCancelled && attributeCancelToOwner {
        approvedBy = res.UserID
    }

    res.Status = status
    if status == models.StatusApproved {
        res.AssignedStaff = datatypes.NewJSONType(models.AssignedStaff{
            StaffID: actor.ID,
            Name:    actor.Name,
            Email:   actor.Email,
        })
    }
    res.ApprovalLog = append(res.ApprovalLog, models.ApprovalEntry{
        ApprovedBy: approvedBy,
        Status:     status,
        Timestamp:  s.now(),
        Note:       note,
    })

    if err := s.db.WithContext(ctx).Save(&res).Error; err != nil {
        return nil, err
    }

    s.dispatchTransition(ctx, &res, room, owner, actor)
    return &res, nil
}

// dispatchAdmission fans out the reserve_created side effects: notify the
// organization's admin/staff members, email them, then create the
// calendar event when the room syncs. Each step is isolated; failures are
// logged and never surfaced.
func (s *Service) dispatchAdmission(ctx context.Context, res *models.Reservation, room models.Room, requester models.User) string {
    batch := uuid.NewString()
    subject := fmt.Sprintf("New reservation request: %s", room.Name)
    body := fmt.Sprintf("%s (%s) requested %s from %s to %s.",
        requester.Name, requester.Email, room.Name,
        res.StartTime.Format(time.RFC3339), res.EndTime.Format(time.RFC3339))

    var org models.Organization
    if err := s.db.WithContext(ctx).First(&org, res.OrganizationID).Error; err != nil {
        log.Printf("booking: load organization %d for fan-out: %v", res.OrganizationID, err)
    } else {
        for _, member := range org.StaffMembers() {
            n := s.createNotification(ctx, models.Notification{
                RecipientID:    member.UserID,
                OrganizationID: res.OrganizationID,
                RoomID:         res.RoomID,
                ReservationID:  res.ID,
                Event:          models.EventReserveCreated,
                Subject:        subject,
                Body:           body,
                Sender:         datatypes.NewJSONType(models.Sender{UserID: requester.ID, Name: requester.Name, Email: requester.Email}),
                BatchRef:       batch,
            })
            s.emailRecipient(ctx, n, member.UserID, subject, body)
        }
    }

    if room.SyncEnabled() {
        eventID, err := s.cal.CreateEvent(ctx, room.GoogleCalendar.Data().CalendarID, calendar.Event{
            Summary:       fmt.Sprintf("Room reservation: %s", room.Name),
            Description:   fmt.Sprintf("Booked by %s (%s)", requester.Name, requester.Email),
            Start:         res.StartTime,
            End:           res.EndTime,
            AttendeeEmail: requester.Email,
        })
        if err != nil {
            log.Printf("booking: create calendar event for reservation %d: %v", res.ID, err)
        } else if eventID != "" {
            res.GoogleCalendarEventID = eventID
            if err := s.db.WithContext(ctx).Model(res).Update("google_calendar_event_id", eventID).Error; err != nil {
                log.Printf("booking: save calendar event id for reservation %d: %v", res.ID, err)
            }
        }
    }

    s.recordLog(ctx, models.ActionReserve, requester.ID, res,
        fmt.Sprintf("reservation %d created with status %s", res.ID, res.Status))
    return batch
}

// dispatchTransition fans out the terminal-status side effects to the
// reservation's owner and tears down the calendar event on reject/cancel.
func (s *Service) dispatchTransition(ctx context.Context, res *models.Reservation, room models.Room, owner, actor models.User) {
    event, subject := transitionEvent(res.Status, room.Name)
    body := fmt.Sprintf("Your reservation for %s from %s to %s is now %s.",
        room.Name, res.StartTime.Format(time.RFC3339), res.EndTime.Format(time.RFC3339), res.Status)

    n := s.createNotification(ctx, models.Notification{
        RecipientID:    owner.ID,
        OrganizationID: res.OrganizationID,
        RoomID:         res.RoomID,
        ReservationID:  res.ID,
        Event:          event,
        Subject:        subject,
        Body:           body,
        Sender:         datatypes.NewJSONType(models.Sender{UserID: actor.ID, Name: actor.Name, Email: actor.Email}),
        BatchRef:       uuid.NewString(),
    })
    if err := s.mail.Send(owner.Email, subject, body); err != nil {
        log.Printf("booking: email %s about reservation %d: %v", owner.Email, res.ID, err)
        s.markNotificationFailed(ctx, n)
    }

    teardown := res.Status == models.StatusRejected || res.Status == models.StatusCancelled
    if teardown && room.SyncEnabled() && res.GoogleCalendarEventID != "" {
        if err := s.cal.DeleteEvent(ctx, room.GoogleCalendar.Data().CalendarID, res.GoogleCalendarEventID); err != nil {
            log.Printf("booking: delete calendar event %s for reservation %d: %v", res.GoogleCalendarEventID, res.ID, err)
        } else if err := s.db.WithContext(ctx).Model(res).Update("google_calendar_event_id", "").Error; err != nil {
            log.Printf("booking: clear calendar event id for reservation %d: %v", res.ID, err)
        }
    }

    switch res.Status {
    case models.StatusApproved:
        s.recordLog(ctx, models.ActionApprove, actor.ID, res, fmt.Sprintf("reservation %d approved", res.ID))
    case models.StatusCancelled:
        s.recordLog(ctx, models.ActionCancel, actor.ID, res, fmt.Sprintf("reservation %d cancelled", res.ID))
    }
}

func transitionEvent(status models.ReservationStatus, roomName string) (models.NotificationEvent, string) {
    switch status {
    case models.StatusApproved:
        return models.EventReserveApproved, fmt.Sprintf("Reservation approved: %s", roomName)
    case models.StatusRejected:
        return models.EventReserveRejected, fmt.Sprintf("Reservation rejected: %s", roomName)
    default:
        return models.EventReserveCancelled, fmt.Sprintf("Reservation cancelled: %s", roomName)
    }
}

// createNotification inserts a notification record; on failure it logs
// and returns nil so the caller can keep going.
func (s *Service) createNotification(ctx context.Context, n models.Notification) *models.Notification {
    sentAt := s.now()
    n.Status = models.NotificationSent
    n.SentAt = &sentAt
    if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
        log.Printf("booking: create %s notification for user %d: %v", n.Event, n.RecipientID, err)
        return nil
    }
    return &n
}

func (s *Service) markNotificationFailed(ctx context.Context, n *models.Notification) {
    if n == nil {
        return
    }
    if err := s.db.WithContext(ctx).Model(n).Update("status", models.NotificationFailed).Error; err != nil {
        log.Printf("booking: mark notification %d failed: %v", n.ID, err)
    }
}

// emailRecipient resolves the recipient's address and sends one message;
// a failed send flips the matching notification record to failed.
func (s *Service) emailRecipient(ctx context.Context, n *models.Notification, userID int64, subject, body string) {
    var recipient models.User
    if err := s.db.WithContext(ctx).First(&recipient, userID).Error; err != nil {
        log.Printf("booking: load notification recipient %d: %v", userID, err)
        return
    }
    if err := s.mail.Send(recipient.Email, subject, body); err != nil {
        log.Printf("booking: email %s: %v", recipient.Email, err)
        s.markNotificationFailed(ctx, n)
    }
}

func (s *Service) recordLog(ctx context.Context, action models.LogAction, userID int64, res *models.Reservation, detail string) {
    entry := models.Log{
        Action:         action,
        UserID:         userID,
        RoomID:         res.RoomID,
        OrganizationID: res.OrganizationID,
        Timestamp:      s.now(),
        Detail:         detail,
    }
    if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
        log.Printf("booking: record %s log: %v", action, err)
    }
}
