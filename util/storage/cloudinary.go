package storage

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/roamark/roamark_api/config"
)

type Cloudinary struct {
	CLD    *cloudinary.Cloudinary
	Folder string
}

func NewCloudinary(cfg *config.Config) *Cloudinary {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatalf("Failed to initialize Cloudinary: %v", err)
	}

	return &Cloudinary{CLD: cld, Folder: cfg.CloudinaryFolder}
}

// UploadResult is what photo rows persist about an uploaded blob. The
// public ID is the blob file identifier used for later destroys.
type UploadResult struct {
	FileID string
	URL    string
	Width  int
	Height int
}

// UploadImage pushes one image to Cloudinary and returns the assigned
// public ID, the delivery URL, and the pixel dimensions Cloudinary
// measured.
func (c *Cloudinary) UploadImage(ctx context.Context, file io.Reader) (*UploadResult, error) {
	resp, err := c.CLD.Upload.Upload(ctx, file, uploader.UploadParams{Folder: c.Folder})
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		FileID: resp.PublicID,
		URL:    resp.SecureURL,
		Width:  resp.Width,
		Height: resp.Height,
	}, nil
}

// DeleteImage destroys a single blob by its public ID. An already-gone
// blob is not an error; callers treat deletion as idempotent.
func (c *Cloudinary) DeleteImage(ctx context.Context, fileID string) error {
	resp, err := c.CLD.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: fileID})
	if err != nil {
		return err
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", fileID, resp.Result)
	}
	return nil
}
