// Package netx holds small HTTP helpers shared by the client: building
// multipart bodies and streaming a URL into a writer.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Part is one file in a multipart body.
type Part struct {
	Field    string
	Filename string
	Content  io.Reader
}

// MultipartBody encodes fields and parts as multipart/form-data and returns
// the body together with its Content-Type. Fields are written in the order
// given by keys so requests are reproducible.
func MultipartBody(keys []string, fields map[string]string, parts []Part) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for _, k := range keys {
		if err := mw.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.Field, p.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", p.Filename, err)
		}
		if _, err := io.Copy(fw, p.Content); err != nil {
			return nil, "", fmt.Errorf("copy part %s: %w", p.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

// Download GETs url with client and copies the body into w.
func Download(ctx context.Context, client *http.Client, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return 0, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: b}
	}
	return io.Copy(w, resp.Body)
}

// StatusError is a non-200 download response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download failed: %s; body: %s", e.Status, string(e.Body))
}
