package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/rahul4469/review-sentiment/internal/middleware"
	"github.com/rahul4469/review-sentiment/internal/validation"
	"github.com/rahul4469/review-sentiment/internal/views"
)

// DefaultAnalysisTimeout bounds one analysis request.
const DefaultAnalysisTimeout = 30 * time.Second

// pageData fills the fields every page needs.
func pageData(r *http.Request, title string, data any) *views.TemplateData {
	return &views.TemplateData{
		Title:     title,
		CSRFToken: csrf.Token(r),
		CSRFField: csrf.TemplateField(r),
		Lang:      middleware.CurrentLanguage(r),
		Data:      data,
	}
}

func analysisContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

// upload is a validated CSV file read into memory.
type upload struct {
	Filename string
	Data     []byte
}

// readUpload reads the multipart field "file" and validates it.
func readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxUploadBody)
	if err := r.ParseMultipartForm(validation.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, validation.ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, validation.ErrFileRequired
		}
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, validation.ErrFileRequired
		}
		return nil, fmt.Errorf("read form file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, validation.MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	head := data
	if len(head) > validation.SniffSize {
		head = head[:validation.SniffSize]
	}
	if err := validation.Upload(header.Filename, int64(len(data)), head); err != nil {
		return nil, err
	}

	return &upload{Filename: header.Filename, Data: data}, nil
}
