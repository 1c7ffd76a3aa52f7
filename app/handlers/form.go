package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/Rakhulsr/supplierhub/app/services"
	"github.com/gabriel-vasile/mimetype"
	"github.com/shopspring/decimal"
)

const (
	maxJSONBodySize = 1 << 20
	// Product forms may carry several files of either kind.
	maxProductFormSize = 200 << 20
	maxUploadFormSize  = services.MaxDocumentSize + (1 << 20)
	MaxImageFormSize   = services.MaxImageSize + (1 << 20)
	multipartMemory    = 32 << 20
)

// DecodeJSON reads a single JSON object from the request body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return helpers.NewValidationError("request body is empty", nil)
		case errors.As(err, &syntaxErr):
			return helpers.NewValidationError(fmt.Sprintf("invalid JSON at position %d", syntaxErr.Offset), nil)
		case errors.As(err, &typeErr):
			return helpers.NewValidationError(fmt.Sprintf("invalid value for field %q", typeErr.Field), map[string]string{typeErr.Field: "invalid value"})
		case errors.As(err, &maxBytesErr):
			return helpers.NewValidationError("request body too large", nil)
		default:
			return helpers.NewValidationError("invalid request body", nil)
		}
	}
	return nil
}

func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return helpers.NewValidationError(fmt.Sprintf("request body exceeds %dMB", maxBytes>>20), nil)
		}
		return helpers.NewValidationError("invalid multipart form", nil)
	}
	return nil
}

// readFile loads one uploaded file. The content type is sniffed from the
// bytes; the client supplied header is not trusted.
func readFile(fh *multipart.FileHeader) (services.FileUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return services.FileUpload{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return services.FileUpload{
		Filename:    fh.Filename,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}

// FormFiles reads every file sent under field.
func FormFiles(r *http.Request, field string) ([]services.FileUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	out := make([]services.FileUpload, 0, len(headers))
	for _, fh := range headers {
		file, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	return out, nil
}

// formValue reports whether the field was sent at all, so an empty value can
// be told apart from an absent one.
func formValue(r *http.Request, field string) (string, bool) {
	if r.MultipartForm != nil {
		if v, ok := r.MultipartForm.Value[field]; ok && len(v) > 0 {
			return v[0], true
		}
	}
	if v, ok := r.PostForm[field]; ok && len(v) > 0 {
		return v[0], true
	}
	return "", false
}

func FormPtr(r *http.Request, field string) *string {
	v, ok := formValue(r, field)
	if !ok {
		return nil
	}
	return &v
}

// optionalID maps a blank id field to nil.
func optionalID(r *http.Request, field string) *string {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return nil
	}
	return &v
}

func formPrice(r *http.Request, field string) (*decimal.Decimal, error) {
	v, ok := formValue(r, field)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return nil, helpers.NewValidationError("price must be a number", map[string]string{field: "must be a number"})
	}
	return &d, nil
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
