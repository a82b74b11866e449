package handlers

import (
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "roombook/internal/auth"
    "roombook/internal/models"
    "roombook/internal/upload"
)

// UploadUserImage stores a new profile image for the caller.
func UploadUserImage(db *gorm.DB, up upload.Uploader) gin.HandlerFunc {
    return func(c *gin.Context) {
        caller, ok := auth.CurrentUser(c)
        if !ok {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
            return
        }

        url, ok := receiveImage(c, up, "users")
        if !ok {
            return
        }

        if err := db.Model(&models.User{}).Where("id = ?", caller.ID).
            Update("profile_image", url).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, gin.H{"message": "Upload successful", "url": url})
    }
}

// DeleteUserImage clears the caller's profile image. The hosted copy is
// kept: no public id is stored, so it cannot be removed remotely.
func DeleteUserImage(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        caller, _ := auth.CurrentUser(c)

        var user models.User
        if err := db.First(&user, caller.ID).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
            return
        }
        if user.ProfileImage == "" {
            c.JSON(http.StatusBadRequest, gin.H{"message": "User has no image"})
            return
        }

        if err := db.Model(&user).Update("profile_image", "").Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, gin.H{"message": "Profile image removed from user record only"})
    }
}

// UploadOrganizationImage stores a new profile image for an organization.
func UploadOrganizationImage(db *gorm.DB, up upload.Uploader) gin.HandlerFunc {
    return func(c *gin.Context) {
        var org models.Organization
        if err := db.First(&org, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Organization not found"})
            return
        }

        url, ok := receiveImage(c, up, "organizations")
        if !ok {
            return
        }

        if err := db.Model(&org).Update("profile_image", url).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, gin.H{"message": "Upload successful", "url": url})
    }
}

// receiveImage reads the multipart "image" field and pushes it to the
// image host; it writes the error response itself on failure.
func receiveImage(c *gin.Context, up upload.Uploader, folder string) (string, bool) {
    fileHeader, err := c.FormFile("image")
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"message": "No image uploaded"})
        return "", false
    }

    file, err := fileHeader.Open()
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return "", false
    }
    defer file.Close()

    url, err := up.UploadImage(c.Request.Context(), file, folder)
    if err != nil {
        if errors.Is(err, upload.ErrNotConfigured) {
            c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
            return "", false
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return "", false
    }
    return url, true
}
