package handlers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "golang.org/x/crypto/bcrypt"
    "gorm.io/gorm"

    "roombook/internal/models"
)

// ListUsers returns all users from DB
func ListUsers(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var users []models.User
        if err := db.Find(&users).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, gin.H{"users": users})
    }
}

// GetUser returns one user by id
func GetUser(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var user models.User
        if err := db.First(&user, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
            return
        }
        c.JSON(http.StatusOK, gin.H{"user": user})
    }
}

// CreateUser inserts a new user
func CreateUser(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            Email    string `json:"email" binding:"required,email"`
            Name     string `json:"name" binding:"required"`
            Password string `json:"password" binding:"required"`
            Role     string `json:"role"`
            Level    int    `json:"level"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        input.Email = strings.TrimSpace(strings.ToLower(input.Email))
        input.Name = strings.TrimSpace(input.Name)

        if len(input.Password) < 8 {
            c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
            return
        }

        var existing int64
        if err := db.Model(&models.User{}).Where("email = ?", input.Email).Count(&existing).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        if existing > 0 {
            c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
            return
        }

        hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
            return
        }

        role := models.UserRole(input.Role)
        if role == "" {
            role = models.RoleUser
        }

        user := models.User{
            Email:        input.Email,
            Name:         input.Name,
            Role:         role,
            Level:        input.Level,
            PasswordHash: string(hash),
        }
        if err := db.Create(&user).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }

        c.JSON(http.StatusCreated, gin.H{"user": user})
    }
}

// UpdateUser patches mutable user fields
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        var user models.User
        if err := db.First(&user, c.Param("id")).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
            return
        }

        var input struct {
            Name  *string `json:"name"`
            Role  *string `json:"role"`
            Level *int    `json:"level"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        updates := map[string]interface{}{}
        if input.Name != nil {
            updates["name"] = strings.TrimSpace(*input.Name)
        }
        if input.Role != nil {
            updates["role"] = *input.Role
        }
        if input.Level != nil {
            updates["level"] = *input.Level
        }

        if err := db.Model(&user).Updates(updates).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusOK, gin.H{"user": user})
    }
}

// DeleteUser removes a user by id
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
    return func(c *gin.Context) {
        res := db.Delete(&models.User{}, c.Param("id"))
        if res.Error != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
            return
        }
        if res.RowsAffected == 0 {
            c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
            return
        }
        c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
    }
}
