package matcher

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractArchive(t *testing.T) {
	t.Parallel()

	payload := buildZip(t, map[string]string{
		"STU-2025-00001_photo.jpg": "jpeg-bytes",
		"docs/5_marks.pdf":         "pdf-bytes",
	})

	files, err := ExtractArchive(payload)
	require.NoError(t, err)
	require.Len(t, files, 2)

	byName := make(map[string]string, len(files))
	for _, f := range files {
		byName[f.Name] = f.ContentType
	}
	// Nested paths are flattened to the base name.
	assert.Equal(t, "image/jpeg", byName["STU-2025-00001_photo.jpg"])
	assert.Equal(t, "application/pdf", byName["5_marks.pdf"])
}

func TestExtractArchiveSkipsMetadataEntries(t *testing.T) {
	t.Parallel()

	payload := buildZip(t, map[string]string{
		"photo.jpg":                  "jpeg-bytes",
		"__MACOSX/._photo.jpg":       "resource-fork",
		".DS_Store":                  "finder-noise",
		"docs/.hidden_settings.json": "hidden",
	})

	files, err := ExtractArchive(payload)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "photo.jpg", files[0].Name)
	assert.Equal(t, []byte("jpeg-bytes"), files[0].Data)
}

func TestExtractArchiveRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ExtractArchive([]byte("not a zip"))
	require.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		file string
		want string
	}{
		{"photo.JPG", "image/jpeg"},
		{"photo.jpeg", "image/jpeg"},
		{"scan.png", "image/png"},
		{"cert.pdf", "application/pdf"},
		{"report.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"data.csv", "text/csv"},
		{"unknown.bin", "application/octet-stream"},
		{"no-extension", "application/octet-stream"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ContentTypeFor(tc.file), "file %q", tc.file)
	}
}
