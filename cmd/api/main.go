package main

import (
    "context"
    "fmt"
    "log"

    "roombook/internal/auth"
    "roombook/internal/booking"
    "roombook/internal/calendar"
    "roombook/internal/config"
    "roombook/internal/db"
    httpserver "roombook/internal/http"
    "roombook/internal/mail"
    "roombook/internal/seed"
    "roombook/internal/upload"
)

func main() {
    cfg := config.Load()

    gdb := db.Connect(cfg.DSN)
    db.AutoMigrate(gdb)

    if err := seed.FirstSetup(gdb); err != nil {
        log.Fatalf("seed: %v", err)
    }

    var sender mail.Sender = mail.Noop{}
    if cfg.SMTPHost != "" {
        sender = mail.NewSMTP(mail.SMTPConfig{
            Host:     cfg.SMTPHost,
            Port:     cfg.SMTPPort,
            Username: cfg.SMTPUser,
            Password: cfg.SMTPPass,
            From:     cfg.MailFrom,
        })
    }

    var cal calendar.Client = calendar.Disabled{}
    if cfg.GoogleClientID != "" && cfg.GoogleRefreshToken != "" {
        gc, err := calendar.NewGoogle(context.Background(), calendar.GoogleConfig{
            ClientID:     cfg.GoogleClientID,
            ClientSecret: cfg.GoogleClientSecret,
            RefreshToken: cfg.GoogleRefreshToken,
        })
        if err != nil {
            log.Printf("calendar client init failed, sync disabled: %v", err)
        } else {
            cal = gc
        }
    }

    var up upload.Uploader = upload.Disabled{}
    if cfg.CloudinaryURL != "" {
        cld, err := upload.NewCloudinary(cfg.CloudinaryURL)
        if err != nil {
            log.Printf("cloudinary init failed, uploads disabled: %v", err)
        } else {
            up = cld
        }
    }

    svc := booking.NewService(gdb, sender, cal)
    verifier := auth.GoogleVerifier{ClientID: cfg.GoogleClientID}

    r := httpserver.NewRouter(gdb, svc, up, verifier, cfg.JWTSecret)
    log.Printf("Server listening on :%s", cfg.AppPort)
    if err := r.Run(fmt.Sprintf(":%s", cfg.AppPort)); err != nil {
        log.Fatalf("server: %v", err)
    }
}
