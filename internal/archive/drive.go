// Package archive uploads finished episodes to Google Drive. Archival
// is best-effort glue: the pipeline logs failures and carries on.
package archive

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Uploader stores one named payload and returns its remote id.
type Uploader interface {
	Upload(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// DriveUploader writes files into a fixed Drive folder using a service
// account credentials file.
type DriveUploader struct {
	svc      *drive.Service
	folderID string
}

func NewDriveUploader(ctx context.Context, credentialsFile, folderID string) (*DriveUploader, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return &DriveUploader{svc: svc, folderID: folderID}, nil
}

func (u *DriveUploader) Upload(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	meta := &drive.File{Name: name, MimeType: mimeType}
	if u.folderID != "" {
		meta.Parents = []string{u.folderID}
	}

	created, err := u.svc.Files.Create(meta).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	return created.Id, nil
}
