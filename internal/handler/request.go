package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/inkpress/inkpress/internal/service"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger file parts spill to temporary files.
const maxMultipartMemory = 10 << 20

// isMultipart reports whether the request body is multipart form data.
// Image attachments require multipart; plain JSON is accepted otherwise.
func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// decodeJSON decodes a JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	return nil
}

// parseMultipart parses the request's multipart form.
func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return fmt.Errorf("%w: invalid multipart body", errBadRequest)
	}
	return nil
}

// formImage extracts an uploaded image from a parsed multipart form.
// Returns nil when the field is absent. The caller must not use the
// upload after the request ends; the form owns the underlying file.
func formImage(r *http.Request, field string) (*service.ImageUpload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable %s file", errBadRequest, field)
	}

	return &service.ImageUpload{Filename: header.Filename, Reader: file}, nil
}

// formValue returns a multipart form value and whether it was present.
// Partial updates distinguish an absent field from an empty one.
func formValue(r *http.Request, field string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// parseTags interprets the tags field of a multipart form. Accepted
// shapes: a repeated field (tags=a&tags=b), a JSON array in a single
// value, or a comma-separated single value.
func parseTags(values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	if len(values) == 1 {
		raw := strings.TrimSpace(values[0])
		if raw == "" {
			return []string{}, nil
		}
		if strings.HasPrefix(raw, "[") {
			var tags []string
			if err := json.Unmarshal([]byte(raw), &tags); err != nil {
				return nil, fmt.Errorf("%w: tags must be a JSON array of strings", errBadRequest)
			}
			return tags, nil
		}
		if strings.Contains(raw, ",") {
			parts := strings.Split(raw, ",")
			tags := make([]string, 0, len(parts))
			for _, p := range parts {
				if trimmed := strings.TrimSpace(p); trimmed != "" {
					tags = append(tags, trimmed)
				}
			}
			return tags, nil
		}
		return []string{raw}, nil
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags, nil
}
