package handlers

import (
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/datatypes"
    "gorm.io/gorm"

    "roombook/internal/auth"
    "roombook/internal/models"
)

// CreateRoom inserts a new room under an organization.
func CreateRoom(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            OrganizationID int64                  `json:"organization_id" binding:"required"`
            Name           string                 `json:"name" binding:"required"`
            Description    string                 `json:"description"`
            Location       string                 `json:"location"`
            Capacity       int                    `json:"capacity" binding:"required"`
            NeedApproval   bool                   `json:"need_approval"`
            GoogleCalendar *models.CalendarConfig `json:"google_calendar"`
            QuestionBox    []models.Question      `json:"question_box"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        var org models.Organization
        if err := db.First(&org, input.OrganizationID).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Organization not found"})
            return
        }

        calendarData := models.CalendarConfig{}
        if input.GoogleCalendar != nil && input.GoogleCalendar.CalendarID != "" {
            calendarData = models.CalendarConfig{
                CalendarID:  input.GoogleCalendar.CalendarID,
                SyncEnabled: true,
            }
        }

        caller, _ := auth.CurrentUser(c)
        room := models.Room{
            OrganizationID: input.OrganizationID,
            Name:           input.Name,
            Description:    input.Description,
            Location:       input.Location,
            Capacity:       input.Capacity,
            NeedApproval:   input.NeedApproval,
            GoogleCalendar: datatypes.NewJSONType(calendarData),
            QuestionBox:    input.QuestionBox,
            CreatedBy:      caller.ID,
        }
        if err := db.Create(&room).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }

        recordRoomLog(db, models.ActionCreateRoom, caller.ID, room)
        c.JSON(http.StatusCreated, room)
    }
}

// ListRooms returns all rooms
func ListRooms(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var rooms []models.Room
        if err := db.Find(&rooms).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, rooms)
    }
}

// GetRoom returns one room by id
func GetRoom(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var room models.Room
        if err := db.First(&room, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
            return
        }
        c.JSON(http.StatusOK, room)
    }
}

// UpdateRoom patches mutable room fields
func UpdateRoom(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var room models.Room
        if err := db.First(&room, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
            return
        }

        var input struct {
            Name         *string                `json:"name"`
            Description  *string                `json:"description"`
            Location     *string                `json:"location"`
            Capacity     *int                   `json:"capacity"`
            NeedApproval *bool                  `json:"need_approval"`
            GoogleCalendar *models.CalendarConfig `json:"google_calendar"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        updates := map[string]interface{}{}
        if input.Name != nil {
            updates["name"] = *input.Name
        }
        if input.Description != nil {
            updates["description"] = *input.Description
        }
        if input.Location != nil {
            updates["location"] = *input.Location
        }
        if input.Capacity != nil {
            updates["capacity"] = *input.Capacity
        }
        if input.NeedApproval != nil {
            updates["need_approval"] = *input.NeedApproval
        }
        if input.GoogleCalendar != nil {
            updates["google_calendar"] = datatypes.NewJSONType(*input.GoogleCalendar)
        }

        if err := db.Model(&room).Updates(updates).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }

        caller, _ := auth.CurrentUser(c)
        recordRoomLog(db, models.ActionUpdateRoom, caller.ID, room)
        c.JSON(http.StatusOK, room)
    }
}

// DeleteRoom removes a room. Existing reservations are kept (no cascade).
func DeleteRoom(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        res := db.Delete(&models.Room{}, c.Param("id"))
        if res.Error != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
            return
        }
        if res.RowsAffected == 0 {
            c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
            return
        }
        c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
    }
}

// SetRoomRules replaces the room's rule set. Omitted fields keep their
// previous value.
func SetRoomRules(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var room models.Room
        if err := db.First(&room, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
            return
        }

        var input struct {
            MinAdvanceHours    *int                     `json:"min_advance_hours"`
            MaxHoursPerBooking *int                     `json:"max_hours_per_booking"`
            AllowedUserType    []string                 `json:"allowed_user_type"`
            CustomConditions   *models.CustomConditions `json:"custom_conditions"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        rules := room.Rules.Data()
        if input.MinAdvanceHours != nil {
            rules.MinAdvanceHours = *input.MinAdvanceHours
        }
        if input.MaxHoursPerBooking != nil {
            rules.MaxHoursPerBooking = *input.MaxHoursPerBooking
        }
        if input.AllowedUserType != nil {
            rules.AllowedUserType = input.AllowedUserType
        }
        if input.CustomConditions != nil {
            rules.CustomConditions = input.CustomConditions
        }

        room.Rules = datatypes.NewJSONType(rules)
        if err := db.Save(&room).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, room)
    }
}

// SetAvailability replaces the room's weekly opening windows.
func SetAvailability(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var room models.Room
        if err := db.First(&room, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Room not found"})
            return
        }

        var input struct {
            AvailableDates []models.AvailableDate `json:"available_dates" binding:"required"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        room.AvailableDates = input.AvailableDates
        if err := db.Save(&room).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, room)
    }
}

func recordRoomLog(db *gorm.DB, action models.LogAction, userID int64, room models.Room) {
    entry := models.Log{
        Action:         action,
        UserID:         userID,
        RoomID:         room.ID,
        OrganizationID: room.OrganizationID,
        Timestamp:      time.Now(),
    }
    // Best-effort: room operations never fail on log errors.
    db.Create(&entry)
}
