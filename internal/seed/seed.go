package seed

import (
    "errors"
    "log"
    "os"

    "golang.org/x/crypto/bcrypt"
    "gorm.io/datatypes"
    "gorm.io/gorm"

    "roombook/internal/models"
)

// FirstSetup makes sure a default organization and admin account exist
// so the API is usable on a fresh database.
func FirstSetup(db *gorm.DB) error {
    adminEmail := os.Getenv("ADMIN_EMAIL")
    if adminEmail == "" {
        adminEmail = "admin@roombook.local"
    }
    adminPassword := os.Getenv("ADMIN_PASSWORD")
    if adminPassword == "" {
        adminPassword = "change-me-please"
        log.Println("ADMIN_PASSWORD not set, using the default seed password")
    }

    var admin models.User
    err := db.Where("email = ?", adminEmail).First(&admin).Error
    if errors.Is(err, gorm.ErrRecordNotFound) {
        hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
        if err != nil {
            return err
        }
        admin = models.User{
            Email:        adminEmail,
            Name:         "Administrator",
            Role:         models.RoleAdmin,
            Level:        10,
            PasswordHash: string(hash),
        }
        if err := db.Create(&admin).Error; err != nil {
            return err
        }
        log.Printf("seeded admin account %s", adminEmail)
    } else if err != nil {
        return err
    }

    org := models.Organization{
        Name:      "Default Organization",
        CreatedBy: admin.ID,
        Members:   datatypes.NewJSONSlice([]models.Member{{UserID: admin.ID, Role: models.MemberAdmin}}),
    }
    var existing models.Organization
    err = db.Where("name = ?", org.Name).First(&existing).Error
    if errors.Is(err, gorm.ErrRecordNotFound) {
        if err := db.Create(&org).Error; err != nil {
            return err
        }
        log.Println("seeded default organization")
    } else if err != nil {
        return err
    }

    return nil
}
