package auth

import (
    "context"
    "errors"

    "google.golang.org/api/idtoken"
)

var ErrGoogleNotConfigured = errors.New("google sign-in is not configured")

// GoogleProfile is the subset of the id_token payload the backend keeps.
type GoogleProfile struct {
    Sub     string
    Email   string
    Name    string
    Picture string
}

// GoogleVerifier validates Google-issued id_tokens against the
// configured OAuth client id.
type GoogleVerifier struct {
    ClientID string
}

func (v GoogleVerifier) Verify(ctx context.Context, rawToken string) (GoogleProfile, error) {
    if v.ClientID == "" {
        return GoogleProfile{}, ErrGoogleNotConfigured
    }
    payload, err := idtoken.Validate(ctx, rawToken, v.ClientID)
    if err != nil {
        return GoogleProfile{}, err
    }
    p := GoogleProfile{Sub: payload.Subject}
    if email, ok := payload.Claims["email"].(string); ok {
        p.Email = email
    }
    if name, ok := payload.Claims["name"].(string); ok {
        p.Name = name
    }
    if picture, ok := payload.Claims["picture"].(string); ok {
        p.Picture = picture
    }
    return p, nil
}
