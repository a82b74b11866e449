package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "roombook/internal/models"
)

// ListNotifications returns notifications, optionally filtered by
// recipient.
func ListNotifications(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var notifications []models.Notification
        query := db.Preload("Recipient").Preload("Room").Order("id DESC")
        if recipient := c.Query("recipient_id"); recipient != "" {
            query = query.Where("recipient_id = ?", recipient)
        }
        if err := query.Find(&notifications).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, notifications)
    }
}

// GetNotification returns one notification by id
func GetNotification(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var n models.Notification
        err := db.Preload("Recipient").Preload("Room").Preload("Organization").
            First(&n, c.Param("id")).Error
        if err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
            return
        }
        c.JSON(http.StatusOK, n)
    }
}

// DeleteNotification removes one notification by id
func DeleteNotification(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        res := db.Delete(&models.Notification{}, c.Param("id"))
        if res.Error != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
            return
        }
        if res.RowsAffected == 0 {
            c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
            return
        }
        c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
    }
}
