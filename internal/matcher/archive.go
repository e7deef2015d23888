package matcher

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

// contentTypes maps file extensions to MIME types for uploaded documents.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".txt":  "text/plain",
}

const defaultContentType = "application/octet-stream"

// ContentTypeFor infers a MIME type from the file extension.
func ContentTypeFor(fileName string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(fileName))]; ok {
		return ct
	}
	return defaultContentType
}

// ExtractArchive unpacks a zip payload into named files, skipping directory
// entries and platform metadata (macOS resource forks, dot-files).
func ExtractArchive(payload []byte) ([]domain.NamedFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	var files []domain.NamedFile
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if skipArchiveEntry(entry.Name) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archive entry %s: %w", entry.Name, err)
		}

		name := path.Base(entry.Name)
		files = append(files, domain.NamedFile{
			Name:        name,
			ContentType: ContentTypeFor(name),
			Data:        data,
		})
	}

	return files, nil
}

func skipArchiveEntry(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return true
	}
	base := path.Base(name)
	return strings.HasPrefix(base, ".")
}
