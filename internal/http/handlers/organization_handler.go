package handlers

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "roombook/internal/auth"
    "roombook/internal/models"
)

// CreateOrganization inserts a new organization owned by the caller.
func CreateOrganization(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            Name        string          `json:"name" binding:"required"`
            Description string          `json:"description"`
            Members     []models.Member `json:"members"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        caller, _ := auth.CurrentUser(c)
        org := models.Organization{
            Name:        input.Name,
            Description: input.Description,
            CreatedBy:   caller.ID,
            Members:     input.Members,
        }
        if err := db.Create(&org).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusCreated, org)
    }
}

// ListOrganizations returns all organizations
func ListOrganizations(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var orgs []models.Organization
        if err := db.Find(&orgs).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, orgs)
    }
}

// GetOrganization returns one organization by id
func GetOrganization(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var org models.Organization
        if err := db.First(&org, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Organization not found"})
            return
        }
        c.JSON(http.StatusOK, org)
    }
}

// UpdateOrganization patches name/description
func UpdateOrganization(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var org models.Organization
        if err := db.First(&org, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Organization not found"})
            return
        }

        var input struct {
            Name        *string `json:"name"`
            Description *string `json:"description"`
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
        if err := db.Model(&org).Updates(updates).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, org)
    }
}

// DeleteOrganization removes an organization. Reservations and rooms are
// not cascaded; they keep their organization_id pointing at a gone row.
func DeleteOrganization(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        res := db.Delete(&models.Organization{}, c.Param("id"))
        if res.Error != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
            return
        }
        if res.RowsAffected == 0 {
            c.JSON(http.StatusNotFound, gin.H{"message": "Organization not found"})
            return
        }
        c.JSON(http.StatusOK, gin.H{"message": "Organization deleted successfully"})
    }
}

// AddMember appends a user to the member list
func AddMember(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            UserID int64             `json:"user_id" binding:"required"`
            Role   models.MemberRole `json:"role" binding:"required"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }
        if input.Role != models.MemberAdmin && input.Role != models.MemberStaff {
            c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin or staff"})
            return
        }

        var org models.Organization
        if err := db.First(&org, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Organization not found"})
            return
        }
        if org.HasMember(input.UserID) {
            c.JSON(http.StatusBadRequest, gin.H{"message": "User already a member"})
            return
        }

        org.Members = append(org.Members, models.Member{UserID: input.UserID, Role: input.Role})
        if err := db.Save(&org).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, org)
    }
}

// RemoveMember drops a user from the member list
func RemoveMember(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            UserID int64 `json:"user_id" binding:"required"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        var org models.Organization
        if err := db.First(&org, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "Organization not found"})
            return
        }

        kept := org.Members[:0]
        for _, m := range org.Members {
            if m.UserID != input.UserID {
                kept = append(kept, m)
            }
        }
        org.Members = kept
        if err := db.Save(&org).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, org)
    }
}
