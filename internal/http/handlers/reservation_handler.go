package handlers

import (
    "errors"
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "roombook/internal/auth"
    "roombook/internal/booking"
    "roombook/internal/models"
    "roombook/internal/rules"
)

// CreateReservation runs the booking admission flow: rule evaluation,
// reservation insert and the staff notification fan-out.
func CreateReservation(svc *booking.Service) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            RoomID         int64                   `json:"room_id" binding:"required"`
            OrganizationID int64                   `json:"organization_id" binding:"required"`
            UserID         int64                   `json:"user_id" binding:"required"`
            StartTime      time.Time               `json:"start_time" binding:"required"`
            EndTime        time.Time               `json:"end_time" binding:"required"`
            Answers        []models.QuestionAnswer `json:"answers"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        result, err := svc.Admit(c.Request.Context(), booking.AdmitInput{
            RoomID:         input.RoomID,
            OrganizationID: input.OrganizationID,
            UserID:         input.UserID,
            StartTime:      input.StartTime,
            EndTime:        input.EndTime,
            Answers:        input.Answers,
        })
        if err != nil {
            respondBookingError(c, err)
            return
        }

        c.JSON(http.StatusCreated, gin.H{
            "reservation":      result.Reservation,
            "notification_ref": result.NotificationRef,
        })
    }
}

// UpdateReservationStatus runs the status transition flow
// (approve/reject/cancel) with the caller as the acting staff member.
func UpdateReservationStatus(svc *booking.Service) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            Status models.ReservationStatus `json:"status" binding:"required"`
            Note   string                   `json:"note"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        id, ok := paramID(c)
        if !ok {
            return
        }

        actor, _ := auth.CurrentUser(c)
        res, err := svc.Transition(c.Request.Context(), id, input.Status, actor, input.Note)
        if err != nil {
            respondBookingError(c, err)
            return
        }
        c.JSON(http.StatusOK, res)
    }
}

// ListReservations returns all reservations with their context preloaded
func ListReservations(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var reservations []models.Reservation
        query := db.Preload("User").Preload("Room").Preload("Organization")
        if status := c.Query("status"); status != "" {
            query = query.Where("status = ?", status)
        }
        if roomID := c.Query("room_id"); roomID != "" {
            query = query.Where("room_id = ?", roomID)
        }
        if err := query.Find(&reservations).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, reservations)
    }
}

// GetReservation returns one reservation by id
func GetReservation(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var res models.Reservation
        err := db.Preload("User").Preload("Room").Preload("Organization").
            First(&res, c.Param("id")).Error
        if err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Reservation not found"})
            return
        }
        c.JSON(http.StatusOK, res)
    }
}

// UpdateReservation patches non-status reservation fields
func UpdateReservation(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var res models.Reservation
        if err := db.First(&res, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Reservation not found"})
            return
        }

        var input struct {
            StartTime *time.Time `json:"start_time"`
            EndTime   *time.Time `json:"end_time"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        updates := map[string]interface{}{}
        if input.StartTime != nil {
            updates["start_time"] = *input.StartTime
        }
        if input.EndTime != nil {
            updates["end_time"] = *input.EndTime
        }
        if err := db.Model(&res).Updates(updates).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, res)
    }
}

// DeleteReservation removes a reservation by id
func DeleteReservation(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        res := db.Delete(&models.Reservation{}, c.Param("id"))
        if res.Error != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
            return
        }
        if res.RowsAffected == 0 {
            c.JSON(http.StatusNotFound, gin.H{"message": "Reservation not found"})
            return
        }
        c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
    }
}

// respondBookingError maps booking errors onto the HTTP taxonomy:
// missing context 404, invalid status 400, rule denials 400 or 403 by
// kind, everything else 500.
func respondBookingError(c *gin.Context, err error) {
    switch {
    case errors.Is(err, booking.ErrRoomNotFound):
        c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
    case errors.Is(err, booking.ErrUserNotFound):
        c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
    case errors.Is(err, booking.ErrReservationNotFound):
        c.JSON(http.StatusNotFound, gin.H{"message": "Reservation not found"})
    case errors.Is(err, booking.ErrInvalidStatus):
        c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status value"})
    default:
        var denial *rules.Denial
        if errors.As(err, &denial) {
            status := http.StatusBadRequest
            if denial.Kind == rules.KindPermission {
                status = http.StatusForbidden
            }
            c.JSON(status, gin.H{"message": denial.Message, "code": denial.Code})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    }
}
