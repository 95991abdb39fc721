package validators

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".avif": true,
}

// Upload is a validated file part ready to be streamed to storage.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (multipart.File, error)
}

// MultipartForm wraps a parsed multipart request with typed accessors.
type MultipartForm struct {
	form *multipart.Form
}

// DecodeMultipartForm parses the request as multipart/form-data with the given
// size cap (in MB). Larger bodies spill to temp files per net/http semantics.
func DecodeMultipartForm(r *http.Request, maxUploadMB int) (*MultipartForm, error) {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	if err := r.ParseMultipartForm(int64(maxUploadMB) << 20); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form").
			WithDetails(map[string][]string{"body": {"The request must be valid multipart/form-data."}})
	}
	return &MultipartForm{form: r.MultipartForm}, nil
}

// Value returns the trimmed first value for a text field.
func (m *MultipartForm) Value(key string) string {
	if m == nil || m.form == nil {
		return ""
	}
	values := m.form.Value[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// DecodeJSONValue decodes a JSON-encoded text part (e.g. the options array)
// into dest. A missing part leaves dest untouched.
func (m *MultipartForm) DecodeJSONValue(key string, dest any) error {
	raw := m.Value(key)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key).
			WithDetails(map[string][]string{key: {"The " + key + " field must be valid JSON."}})
	}
	return nil
}

// Image returns the named file part validated as an allowed image type.
// A missing part returns (nil, nil) so callers can make the image optional.
func (m *MultipartForm) Image(key string) (*Upload, error) {
	if m == nil || m.form == nil {
		return nil, nil
	}
	headers := m.form.File[key]
	if len(headers) == 0 {
		return nil, nil
	}
	return uploadFromHeader(key, headers[0])
}

// Images returns every file part under the key, each validated.
func (m *MultipartForm) Images(key string) ([]*Upload, error) {
	if m == nil || m.form == nil {
		return nil, nil
	}
	headers := m.form.File[key]
	uploads := make([]*Upload, 0, len(headers))
	for _, header := range headers {
		upload, err := uploadFromHeader(key, header)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func uploadFromHeader(key string, header *multipart.FileHeader) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string][]string{key: {"The " + key + " must be a file of type: jpg, jpeg, png, avif."}})
	}
	return &Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Open:     header.Open,
	}, nil
}
