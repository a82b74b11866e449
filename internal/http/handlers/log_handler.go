package handlers

import (
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "roombook/internal/models"
)

// ListLogs returns the action feed, newest first, with cursor pagination.
func ListLogs(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        limit := 50
        if limitStr := c.Query("limit"); limitStr != "" {
            if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
                limit = parsed
            }
        }

        query := db.Model(&models.Log{}).Order("id DESC")
        if orgID := c.Query("organization_id"); orgID != "" {
            query = query.Where("organization_id = ?", orgID)
        }
        if action := c.Query("action"); action != "" {
            query = query.Where("action = ?", action)
        }
        if cursorStr := c.Query("after_id"); cursorStr != "" {
            if parsed, err := strconv.ParseInt(cursorStr, 10, 64); err == nil && parsed > 0 {
                query = query.Where("id < ?", parsed)
            }
        }

        var logs []models.Log
        if err := query.Limit(limit + 1).Find(&logs).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }

        var nextCursor *int64
        if len(logs) > limit {
            next := logs[limit].ID
            logs = logs[:limit]
            nextCursor = &next
        }

        c.JSON(http.StatusOK, gin.H{
            "logs":        logs,
            "next_cursor": nextCursor,
        })
    }
}
