package handlers

import (
    "errors"
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "golang.org/x/crypto/bcrypt"
    "gorm.io/gorm"

    "roombook/internal/auth"
    "roombook/internal/models"
)

// GoogleVerifyToken verifies a Google id_token, finds or creates the
// matching user and returns a backend JWT.
func GoogleVerifyToken(db *gorm.DB, verifier auth.GoogleVerifier, jwtSecret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            IDToken string `json:"id_token" binding:"required"`
        }
        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"message": "Missing id_token"})
            return
        }

        profile, err := verifier.Verify(c.Request.Context(), input.IDToken)
        if err != nil {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid google token"})
            return
        }

        var user models.User
        err = db.Where("email = ?", profile.Email).First(&user).Error
        if errors.Is(err, gorm.ErrRecordNotFound) {
            user = models.User{
                GoogleID:     profile.Sub,
                Email:        profile.Email,
                Name:         profile.Name,
                ProfileImage: profile.Picture,
            }
            if err := db.Create(&user).Error; err != nil {
                c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
                return
            }
        } else if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
            return
        }

        tokenString, err := issueToken(user, jwtSecret)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
            return
        }

        setTokenCookie(c, tokenString)
        c.JSON(http.StatusOK, gin.H{
            "message": "Google login success",
            "user":    user,
            "token":   tokenString,
        })
    }
}

// LoginHandler authenticates a local user and returns JWT
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        var input struct {
            Email    string `json:"email" binding:"required,email"`
            Password string `json:"password" binding:"required"`
        }

        if err := c.ShouldBindJSON(&input); err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
            return
        }

        var user models.User
        if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
            return
        }

        if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
            return
        }

        tokenString, err := issueToken(user, jwtSecret)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
            return
        }

        setTokenCookie(c, tokenString)
        c.JSON(http.StatusOK, gin.H{
            "token": tokenString,
            "user": gin.H{
                "id":    user.ID,
                "email": user.Email,
                "name":  user.Name,
                "role":  user.Role,
            },
        })
    }
}

// ProfileHandler returns the currently authenticated user.
func ProfileHandler() gin.HandlerFunc {
    return func(c *gin.Context) {
        user, ok := auth.CurrentUser(c)
        if !ok {
            c.JSON(http.StatusUnauthorized, gin.H{"message": "Not logged in"})
            return
        }
        c.JSON(http.StatusOK, gin.H{"user": user})
    }
}

// LogoutHandler clears the token cookie.
func LogoutHandler() gin.HandlerFunc {
    return func(c *gin.Context) {
        c.SetCookie("token", "", -1, "/", "", false, true)
        c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
    }
}

func issueToken(user models.User, jwtSecret string) (string, error) {
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "uid":   user.ID,
        "email": user.Email,
        "role":  string(user.Role),
        "exp":   time.Now().Add(7 * 24 * time.Hour).Unix(),
    })
    return token.SignedString([]byte(jwtSecret))
}

func setTokenCookie(c *gin.Context, token string) {
    c.SetCookie(
        "token",    // name
        token,      // value
        3600*24*7,  // expires in 7 days
        "/",        // path
        "",         // domain (same origin)
        false,      // secure (false for localhost; true for HTTPS)
        true,       // HttpOnly
    )
}
