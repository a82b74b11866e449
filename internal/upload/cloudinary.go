package upload

import (
    "context"
    "errors"
    "mime/multipart"

    "github.com/cloudinary/cloudinary-go/v2"
    "github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrNotConfigured = errors.New("image uploads are not configured")

// Uploader stores profile images and returns their public URL.
type Uploader interface {
    UploadImage(ctx context.Context, file multipart.File, folder string) (string, error)
}

// Cloudinary streams uploads into a named folder, matching how user and
// organization images are organized ("users", "organizations").
type Cloudinary struct {
    cld *cloudinary.Cloudinary
}

func NewCloudinary(url string) (*Cloudinary, error) {
    cld, err := cloudinary.NewFromURL(url)
    if err != nil {
        return nil, err
    }
    return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) UploadImage(ctx context.Context, file multipart.File, folder string) (string, error) {
    resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
    if err != nil {
        return "", err
    }
    return resp.SecureURL, nil
}

// Disabled rejects uploads when no CLOUDINARY_URL is set.
type Disabled struct{}

func (Disabled) UploadImage(context.Context, multipart.File, string) (string, error) {
    return "", ErrNotConfigured
}
