package config

import (
    "log"
    "os"
    "strconv"

    "github.com/joho/godotenv"
)

type Config struct {
    DSN       string
    JWTSecret string
    AppPort   string

    GoogleClientID     string
    GoogleClientSecret string
    GoogleRefreshToken string

    SMTPHost string
    SMTPPort int
    SMTPUser string
    SMTPPass string
    MailFrom string

    CloudinaryURL string
}

func Load() Config {
    // Load .env file
    if err := godotenv.Load(); err != nil {
        log.Println(".env file not found, using system environment variables")
    }

    cfg := Config{
        DSN:       os.Getenv("MYSQL_DSN"),
        JWTSecret: os.Getenv("JWT_SECRET"),
        AppPort:   os.Getenv("APP_PORT"),

        GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
        GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
        GoogleRefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),

        SMTPHost: os.Getenv("SMTP_HOST"),
        SMTPUser: os.Getenv("SMTP_USER"),
        SMTPPass: os.Getenv("SMTP_PASS"),
        MailFrom: os.Getenv("MAIL_FROM"),

        CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
    }

    if port := os.Getenv("SMTP_PORT"); port != "" {
        p, err := strconv.Atoi(port)
        if err != nil {
            log.Fatalf("invalid SMTP_PORT %q: %v", port, err)
        }
        cfg.SMTPPort = p
    } else {
        cfg.SMTPPort = 587
    }

    if cfg.DSN == "" {
        log.Fatal("MYSQL_DSN not set in environment")
    }
    if cfg.JWTSecret == "" {
        cfg.JWTSecret = "dev-secret-only"
    }
    if cfg.AppPort == "" {
        cfg.AppPort = "4400"
    }
    if cfg.MailFrom == "" {
        cfg.MailFrom = "noreply@roombook.local"
    }

    return cfg
}
