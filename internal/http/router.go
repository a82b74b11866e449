package httpserver

import (
    "github.com/gin-contrib/cors"
    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "roombook/internal/auth"
    "roombook/internal/booking"
    "roombook/internal/http/handlers"
    "roombook/internal/upload"
)

func NewRouter(db *gorm.DB, svc *booking.Service, up upload.Uploader, verifier auth.GoogleVerifier, jwtSecret string) *gin.Engine {
    r := gin.Default()
    r.Use(cors.Default())

    // Public routes
    r.POST("/api/auth/google", handlers.GoogleVerifyToken(db, verifier, jwtSecret))
    r.POST("/api/auth/login", handlers.LoginHandler(db, jwtSecret))

    // Protected API routes
    api := r.Group("/api", auth.JWT(db, jwtSecret))
    {
        api.GET("/auth/profile", handlers.ProfileHandler())
        api.POST("/auth/logout", handlers.LogoutHandler())

        // Users
        api.GET("/users", handlers.ListUsers(db))
        api.POST("/users", handlers.CreateUser(db))
        api.GET("/users/:id", handlers.GetUser(db))
        api.PUT("/users/:id", handlers.UpdateUser(db))
        api.DELETE("/users/:id", handlers.DeleteUser(db))

        // Organizations
        api.GET("/organizations", handlers.ListOrganizations(db))
        api.POST("/organizations", handlers.CreateOrganization(db))
        api.GET("/organizations/:id", handlers.GetOrganization(db))
        api.PUT("/organizations/:id", handlers.UpdateOrganization(db))
        api.DELETE("/organizations/:id", handlers.DeleteOrganization(db))
        api.POST("/organizations/:id/members", handlers.AddMember(db))
        api.DELETE("/organizations/:id/members", handlers.RemoveMember(db))

        // Rooms
        api.GET("/rooms", handlers.ListRooms(db))
        api.POST("/rooms", handlers.CreateRoom(db))
        api.GET("/rooms/:id", handlers.GetRoom(db))
        api.PUT("/rooms/:id", handlers.UpdateRoom(db))
        api.DELETE("/rooms/:id", handlers.DeleteRoom(db))
        api.PUT("/rooms/:id/rules", handlers.SetRoomRules(db))
        api.PUT("/rooms/:id/availability", handlers.SetAvailability(db))

        // Reservations (admission + status transition flows)
        api.GET("/reservations", handlers.ListReservations(db))
        api.POST("/reservations", handlers.CreateReservation(svc))
        api.GET("/reservations/:id", handlers.GetReservation(db))
        api.PUT("/reservations/:id", handlers.UpdateReservation(db))
        api.DELETE("/reservations/:id", handlers.DeleteReservation(db))
        api.POST("/reservations/:id/status", handlers.UpdateReservationStatus(svc))

        // Notifications
        api.GET("/notifications", handlers.ListNotifications(db))
        api.GET("/notifications/:id", handlers.GetNotification(db))
        api.DELETE("/notifications/:id", handlers.DeleteNotification(db))

        // Action logs
        api.GET("/logs", handlers.ListLogs(db))

        // Uploads
        api.POST("/uploads/users", handlers.UploadUserImage(db, up))
        api.DELETE("/uploads/users", handlers.DeleteUserImage(db))
        api.POST("/uploads/organizations/:id", handlers.UploadOrganizationImage(db, up))
    }

    return r
}
