package share

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveUploader uploads export files to Google Drive using service
// account credentials.
type DriveUploader struct {
	svc      *drive.Service
	folderID string
}

// NewDriveFromEnv builds an uploader from environment credentials.
// Required: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS. Optional: GOOGLE_DRIVE_FOLDER_ID
// to place uploads inside a folder.
func NewDriveFromEnv(ctx context.Context) (*DriveUploader, error) {
	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &DriveUploader{
		svc:      svc,
		folderID: strings.TrimSpace(os.Getenv("GOOGLE_DRIVE_FOLDER_ID")),
	}, nil
}

func credentialsFromEnv() ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		credentialsJSON, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return credentialsJSON, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Upload creates the file on Drive, grants anyone-with-the-link read
// access, and returns the view link.
func (u *DriveUploader) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	meta := &drive.File{Name: filepath.Base(path)}
	if u.folderID != "" {
		meta.Parents = []string{u.folderID}
	}

	created, err := u.svc.Files.Create(meta).
		Media(f).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload to drive: %w", err)
	}

	_, err = u.svc.Permissions.Create(created.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("share drive file: %w", err)
	}

	return created.WebViewLink, nil
}
