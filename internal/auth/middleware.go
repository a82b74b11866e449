package auth

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "gorm.io/gorm"

    "roombook/internal/models"
)

// Claims represents the JWT claims structure.
type Claims struct {
    UserID int64  `json:"uid"`
    Email  string `json:"email"`
    Role   string `json:"role"`
    jwt.RegisteredClaims
}

// JWT returns a Gin middleware that validates JWT tokens from either the
// Authorization header or a "token" cookie and loads the current user
// into the context.
func JWT(db *gorm.DB, secret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        tokenStr := c.GetHeader("Authorization")

        // Fallback: read from cookie if no Authorization header
        if tokenStr == "" {
            if cookie, err := c.Cookie("token"); err == nil {
                tokenStr = "Bearer " + cookie
            }
        }

        if tokenStr == "" {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
            c.Abort()
            return
        }

        tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
        tokenStr = strings.TrimSpace(tokenStr)

        token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
            return []byte(secret), nil
        })
        if err != nil || !token.Valid {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
            c.Abort()
            return
        }

        claims, ok := token.Claims.(*Claims)
        if !ok {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
            c.Abort()
            return
        }

        // Verify the user still exists
        var user models.User
        if err := db.First(&user, claims.UserID).Error; err != nil {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
            c.Abort()
            return
        }

        c.Set("claims", claims)
        c.Set("currentUser", user)
        c.Next()
    }
}

// CurrentUser pulls the user loaded by the JWT middleware out of the
// request context.
func CurrentUser(c *gin.Context) (models.User, bool) {
    v, ok := c.Get("currentUser")
    if !ok {
        return models.User{}, false
    }
    user, ok := v.(models.User)
    return user, ok
}
