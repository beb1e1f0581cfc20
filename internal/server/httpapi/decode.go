package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/domain"
	"github.com/dmitrijs2005/assignhub/internal/server/services"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = 64 << 20
	multipartMemory  = 32 << 20
)

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.NewValidationError("body", "Request body is not valid JSON.")
	}
	return nil
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return domain.NewValidationError("body", "Request must be multipart/form-data.")
	}
	return nil
}

// openFiles opens the uploaded files under field. The returned func closes
// them and must be called even when an error is returned.
func openFiles(r *http.Request, field string) ([]services.File, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	if r.MultipartForm == nil {
		return nil, closeAll, nil
	}

	headers := r.MultipartForm.File[field]
	files := make([]services.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, f)
		files = append(files, services.File{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}
	return files, closeAll, nil
}

// assignmentForm builds the create form from multipart fields.
func assignmentForm(r *http.Request) (domain.NewAssignment, error) {
	form := domain.NewAssignment{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Complexity:  domain.Complexity(r.FormValue("complexity")),
		OwnerID:     r.FormValue("ownerId"),
	}

	verr := &domain.ValidationError{}
	if raw := r.FormValue("deadline"); raw != "" {
		d, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			verr.Add("deadline", "Deadline must be an RFC 3339 timestamp.")
		}
		form.Deadline = d
	}
	if raw := r.FormValue("paymentAmount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			verr.Add("paymentAmount", "Payment amount must be a number.")
		}
		form.PaymentAmount = amount
	}
	return form, verr.OrNil()
}
