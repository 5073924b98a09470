package storage

import (
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local photo blob store. Files live under UPLOAD_DIR/photos with generated
// names; metadata records in Mongo point back via the returned path.

var uploadDir string

func InitializeUploads() {
	base := os.Getenv("UPLOAD_DIR")
	if base == "" {
		base = "uploads"
	}
	uploadDir = filepath.Join(base, "photos")

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Panic("error creating upload dir: " + err.Error())
	}

	log.Println("Uploads initialized with directory:", uploadDir)
}

// SavePhotoFile writes data under a unique name, keeping the original
// extension, and returns the generated filename and full path.
func SavePhotoFile(data []byte, originalName string) (string, string, error) {
	filename := uuid.NewString() + filepath.Ext(originalName)
	path := filepath.Join(uploadDir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", err
	}
	return filename, path, nil
}

func ReadPhotoFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// RemovePhotoFile is best-effort: a missing or locked file is logged and
// ignored so the caller can still drop the metadata record.
func RemovePhotoFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Println("could not remove photo file:", path, err)
	}
}
