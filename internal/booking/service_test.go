package booking

import (
    "context"
    "errors"
    "testing"
    "time"

    "gorm.io/datatypes"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    "gorm.io/gorm/logger"

    "roombook/internal/calendar"
    "roombook/internal/models"
    "roombook/internal/rules"
)

var fixedNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

type sentMail struct {
    to, subject string
}

type fakeMailer struct {
    sent []sentMail
    err  error
}

func (f *fakeMailer) Send(to, subject, _ string) error {
    f.sent = append(f.sent, sentMail{to: to, subject: subject})
    return f.err
}

type fakeCalendar struct {
    created   int
    deleted   int
    eventID   string
    createErr error
    deleteErr error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, _ string, _ calendar.Event) (string, error) {
    f.created++
    if f.createErr != nil {
        return "", f.createErr
    }
    return f.eventID, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, _, _ string) error {
    f.deleted++
    return f.deleteErr
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *fakeMailer, *fakeCalendar) {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
        Logger: logger.Default.LogMode(logger.Silent),
    })
    if err != nil {
        t.Fatalf("open sqlite: %v", err)
    }
    err = db.AutoMigrate(
        &models.User{},
        &models.Organization{},
        &models.Room{},
        &models.Reservation{},
        &models.Notification{},
        &models.Log{},
    )
    if err != nil {
        t.Fatalf("migrate: %v", err)
    }

    mailer := &fakeMailer{}
    cal := &fakeCalendar{eventID: "evt-1"}
    svc := NewService(db, mailer, cal)
    svc.now = func() time.Time { return fixedNow }
    return svc, db, mailer, cal
}

type fixtures struct {
    owner models.User
    staff models.User
    org   models.Organization
    room  models.Room
}

func seedFixtures(t *testing.T, db *gorm.DB, room models.Room) fixtures {
    t.Helper()
    owner := models.User{Email: "owner@univ.ac.th", Name: "Owner", Role: "student", Level: 1}
    staff := models.User{Email: "staff@univ.ac.th", Name: "Staff", Role: "admin", Level: 5}
    if err := db.Create(&owner).Error; err != nil {
        t.Fatalf("create owner: %v", err)
    }
    if err := db.Create(&staff).Error; err != nil {
        t.Fatalf("create staff: %v", err)
    }

    org := models.Organization{
        Name:      "Engineering Faculty",
        CreatedBy: staff.ID,
        Members:   datatypes.NewJSONSlice([]models.Member{{UserID: staff.ID, Role: models.MemberAdmin}}),
    }
    if err := db.Create(&org).Error; err != nil {
        t.Fatalf("create org: %v", err)
    }

    room.OrganizationID = org.ID
    room.CreatedBy = staff.ID
    if room.Capacity == 0 {
        room.Capacity = 10
    }
    if err := db.Create(&room).Error; err != nil {
        t.Fatalf("create room: %v", err)
    }
    return fixtures{owner: owner, staff: staff, org: org, room: room}
}

func admitInput(f fixtures, startIn, length time.Duration) AdmitInput {
    return AdmitInput{
        RoomID:         f.room.ID,
        OrganizationID: f.org.ID,
        UserID:         f.owner.ID,
        StartTime:      fixedNow.Add(startIn),
        EndTime:        fixedNow.Add(startIn + length),
    }
}

func TestAdmitPendingWhenApprovalRequired(t *testing.T) {
    svc, db, mailer, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{Name: "Meeting Room A", NeedApproval: true})

    result, err := svc.Admit(context.Background(), admitInput(f, 48*time.Hour, 2*time.Hour))
    if err != nil {
        t.Fatalf("admit: %v", err)
    }
    if result.Reservation.Status != models.StatusPending {
        t.Fatalf("expected status pending, got %s", result.Reservation.Status)
    }
    if result.NotificationRef == "" {
        t.Fatalf("expected a notification reference")
    }

    var notifications []models.Notification
    if err := db.Find(&notifications).Error; err != nil {
        t.Fatalf("load notifications: %v", err)
    }
    if len(notifications) != 1 {
        t.Fatalf("expected 1 staff notification, got %d", len(notifications))
    }
    n := notifications[0]
    if n.RecipientID != f.staff.ID || n.Event != models.EventReserveCreated {
        t.Fatalf("unexpected notification %+v", n)
    }
    if n.BatchRef != result.NotificationRef {
        t.Fatalf("notification batch ref %q != result ref %q", n.BatchRef, result.NotificationRef)
    }
    if len(mailer.sent) != 1 || mailer.sent[0].to != f.staff.Email {
        t.Fatalf("expected one mail to staff, got %+v", mailer.sent)
    }
}

func TestAdmitAutoApprovedWithoutRules(t *testing.T) {
    svc, db, _, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{Name: "Open Space", NeedApproval: false})

    result, err := svc.Admit(context.Background(), admitInput(f, time.Hour, time.Hour))
    if err != nil {
        t.Fatalf("admit: %v", err)
    }
    if result.Reservation.Status != models.StatusApproved {
        t.Fatalf("expected status approved, got %s", result.Reservation.Status)
    }
    if len(result.Reservation.ApprovalLog) != 0 {
        t.Fatalf("expected empty approval log, got %d entries", len(result.Reservation.ApprovalLog))
    }
}

func TestAdmitDeniedByAdvanceNotice(t *testing.T) {
    svc, db, _, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{
        Name:  "Strict Room",
        Rules: datatypes.NewJSONType(models.RoomRules{MinAdvanceHours: 24, MaxHoursPerBooking: 4}),
    })

    _, err := svc.Admit(context.Background(), admitInput(f, 2*time.Hour, 2*time.Hour))
    var denial *rules.Denial
    if !errors.As(err, &denial) {
        t.Fatalf("expected denial, got %v", err)
    }
    if denial.Code != rules.CodeAdvanceNotice {
        t.Fatalf("expected advance-notice denial, got %q", denial.Code)
    }

    var count int64
    db.Model(&models.Reservation{}).Count(&count)
    if count != 0 {
        t.Fatalf("expected no reservation rows, got %d", count)
    }
}

func TestAdmitPermissionDeniedByUserType(t *testing.T) {
    svc, db, _, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{
        Name:  "Students Only",
        Rules: datatypes.NewJSONType(models.RoomRules{AllowedUserType: []string{"student"}}),
    })

    in := admitInput(f, 48*time.Hour, time.Hour)
    in.UserID = f.staff.ID // role admin, not in allowlist
    _, err := svc.Admit(context.Background(), in)
    var denial *rules.Denial
    if !errors.As(err, &denial) {
        t.Fatalf("expected denial, got %v", err)
    }
    if denial.Kind != rules.KindPermission {
        t.Fatalf("expected permission denial, got kind %q", denial.Kind)
    }
}

func TestAdmitMissingRoomAndUser(t *testing.T) {
    svc, db, _, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{Name: "Room"})

    in := admitInput(f, time.Hour, time.Hour)
    in.RoomID = 9999
    if _, err := svc.Admit(context.Background(), in); !errors.Is(err, ErrRoomNotFound) {
        t.Fatalf("expected ErrRoomNotFound, got %v", err)
    }

    in = admitInput(f, time.Hour, time.Hour)
    in.UserID = 9999
    if _, err := svc.Admit(context.Background(), in); !errors.Is(err, ErrUserNotFound) {
        t.Fatalf("expected ErrUserNotFound, got %v", err)
    }
}

func TestAdmitCreatesCalendarEvent(t *testing.T) {
    svc, db, _, cal := newTestService(t)
    f := seedFixtures(t, db, models.Room{
        Name:           "Synced Room",
        GoogleCalendar: datatypes.NewJSONType(models.CalendarConfig{CalendarID: "cal-1", SyncEnabled: true}),
    })

    result, err := svc.Admit(context.Background(), admitInput(f, time.Hour, time.Hour))
    if err != nil {
        t.Fatalf("admit: %v", err)
    }
    if cal.created != 1 {
        t.Fatalf("expected 1 calendar create, got %d", cal.created)
    }

    var stored models.Reservation
    if err := db.First(&stored, result.Reservation.ID).Error; err != nil {
        t.Fatalf("reload reservation: %v", err)
    }
    if stored.GoogleCalendarEventID != "evt-1" {
        t.Fatalf("expected event id persisted, got %q", stored.GoogleCalendarEventID)
    }
}

func TestAdmitSideEffectFailuresDoNotAbort(t *testing.T) {
    svc, db, mailer, cal := newTestService(t)
    mailer.err = errors.New("smtp down")
    cal.createErr = errors.New("calendar down")
    f := seedFixtures(t, db, models.Room{
        Name:           "Flaky Room",
        NeedApproval:   true,
        GoogleCalendar: datatypes.NewJSONType(models.CalendarConfig{CalendarID: "cal-1", SyncEnabled: true}),
    })

    result, err := svc.Admit(context.Background(), admitInput(f, time.Hour, time.Hour))
    if err != nil {
        t.Fatalf("admit should succeed despite side-effect failures, got %v", err)
    }

    var stored models.Reservation
    if err := db.First(&stored, result.Reservation.ID).Error; err != nil {
        t.Fatalf("reservation was not persisted: %v", err)
    }
    if stored.GoogleCalendarEventID != "" {
        t.Fatalf("no event id should be stored on calendar failure, got %q", stored.GoogleCalendarEventID)
    }

    // Mail failure flips the staff notification to failed.
    var n models.Notification
    if err := db.First(&n).Error; err != nil {
        t.Fatalf("load notification: %v", err)
    }
    if n.Status != models.NotificationFailed {
        t.Fatalf("expected failed notification, got %s", n.Status)
    }
}

func pendingReservation(t *testing.T, svc *Service, f fixtures) *models.Reservation {
    t.Helper()
    result, err := svc.Admit(context.Background(), admitInput(f, 48*time.Hour, 2*time.Hour))
    if err != nil {
        t.Fatalf("admit: %v", err)
    }
    return result.Reservation
}

func TestTransitionApproveAssignsStaff(t *testing.T) {
    svc, db, _, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{Name: "Room", NeedApproval: true})
    res := pendingReservation(t, svc, f)

    updated, err := svc.Transition(context.Background(), res.ID, models.StatusApproved, f.staff, "looks fine")
    if err != nil {
        t.Fatalf("transition: %v", err)
    }
    if updated.Status != models.StatusApproved {
        t.Fatalf("expected approved, got %s", updated.Status)
    }
    assigned := updated.AssignedStaff.Data()
    if assigned.StaffID != f.staff.ID || assigned.Email != f.staff.Email {
        t.Fatalf("assigned staff not set from actor: %+v", assigned)
    }
    if len(updated.ApprovalLog) != 1 {
        t.Fatalf("expected exactly 1 audit entry, got %d", len(updated.ApprovalLog))
    }
    entry := updated.ApprovalLog[0]
    if entry.ApprovedBy != f.staff.ID || entry.Status != models.StatusApproved || entry.Note != "looks fine" {
        t.Fatalf("unexpected audit entry %+v", entry)
    }
}

func TestTransitionCancelAttributedToOwner(t *testing.T) {
    svc, db, _, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{Name: "Room", NeedApproval: true})
    res := pendingReservation(t, svc, f)

    // Staff invokes the cancellation; the audit entry still names the owner.
    updated, err := svc.Transition(context.Background(), res.ID, models.StatusCancelled, f.staff, "owner asked")
    if err != nil {
        t.Fatalf("transition: %v", err)
    }
    if len(updated.ApprovalLog) != 1 {
        t.Fatalf("expected 1 audit entry, got %d", len(updated.ApprovalLog))
    }
    if got := updated.ApprovalLog[0].ApprovedBy; got != f.owner.ID {
        t.Fatalf("cancellation attributed to %d, want owner %d", got, f.owner.ID)
    }
}

func TestTransitionRejectsInvalidStatus(t *testing.T) {
    svc, db, _, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{Name: "Room", NeedApproval: true})
    res := pendingReservation(t, svc, f)

    if _, err := svc.Transition(context.Background(), res.ID, "pending", f.staff, ""); !errors.Is(err, ErrInvalidStatus) {
        t.Fatalf("expected ErrInvalidStatus, got %v", err)
    }
    if _, err := svc.Transition(context.Background(), res.ID, "done", f.staff, ""); !errors.Is(err, ErrInvalidStatus) {
        t.Fatalf("expected ErrInvalidStatus, got %v", err)
    }

    var stored models.Reservation
    if err := db.First(&stored, res.ID).Error; err != nil {
        t.Fatalf("reload: %v", err)
    }
    if stored.Status != models.StatusPending {
        t.Fatalf("status should be unchanged, got %s", stored.Status)
    }
}

func TestTransitionNotFound(t *testing.T) {
    svc, db, _, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{Name: "Room"})

    if _, err := svc.Transition(context.Background(), 4242, models.StatusApproved, f.staff, ""); !errors.Is(err, ErrReservationNotFound) {
        t.Fatalf("expected ErrReservationNotFound, got %v", err)
    }
}

func TestTransitionRejectTearsDownCalendarEvent(t *testing.T) {
    svc, db, _, cal := newTestService(t)
    f := seedFixtures(t, db, models.Room{
        Name:           "Synced Room",
        NeedApproval:   true,
        GoogleCalendar: datatypes.NewJSONType(models.CalendarConfig{CalendarID: "cal-1", SyncEnabled: true}),
    })
    res := pendingReservation(t, svc, f)
    if cal.created != 1 {
        t.Fatalf("expected event created at admission, got %d", cal.created)
    }

    cal.deleteErr = errors.New("google 500")
    updated, err := svc.Transition(context.Background(), res.ID, models.StatusRejected, f.staff, "no slot")
    if err != nil {
        t.Fatalf("transition must not fail on calendar errors: %v", err)
    }
    if updated.Status != models.StatusRejected {
        t.Fatalf("expected rejected, got %s", updated.Status)
    }
    if cal.deleted != 1 {
        t.Fatalf("expected exactly 1 delete attempt, got %d", cal.deleted)
    }

    var stored models.Reservation
    if err := db.First(&stored, res.ID).Error; err != nil {
        t.Fatalf("reload: %v", err)
    }
    if stored.Status != models.StatusRejected {
        t.Fatalf("rejected status not persisted, got %s", stored.Status)
    }
}

func TestTransitionNotifiesOwner(t *testing.T) {
    svc, db, mailer, _ := newTestService(t)
    f := seedFixtures(t, db, models.Room{Name: "Room", NeedApproval: true})
    res := pendingReservation(t, svc, f)
    mailer.sent = nil

    if _, err := svc.Transition(context.Background(), res.ID, models.StatusApproved, f.staff, ""); err != nil {
        t.Fatalf("transition: %v", err)
    }

    var n models.Notification
    if err := db.Where("event = ?", models.EventReserveApproved).First(&n).Error; err != nil {
        t.Fatalf("load approval notification: %v", err)
    }
    if n.RecipientID != f.owner.ID {
        t.Fatalf("approval notification went to %d, want owner %d", n.RecipientID, f.owner.ID)
    }
    if len(mailer.sent) != 1 || mailer.sent[0].to != f.owner.Email {
        t.Fatalf("expected one mail to owner, got %+v", mailer.sent)
    }
}
