package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

const crestDir = "uploads/crests"

// StoreCrest persists a crest image and returns the URL to serve it from.
// Prefers R2/CDN when configured, otherwise writes under uploads/ which the
// server exposes as static files.
func StoreCrest(fileHeader *multipart.FileHeader, filename string) (string, error) {
	if R2Enabled() {
		return uploadToR2(fileHeader, "crests/"+filename)
	}

	destPath := filepath.Join(crestDir, filename)
	if err := saveFile(fileHeader, destPath); err != nil {
		return "", err
	}
	return fmt.Sprintf("/uploads/crests/%s", filename), nil
}

// saveFile writes the uploaded file to destPath, creating parent directories.
func saveFile(fileHeader *multipart.FileHeader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	return err
}
