package validation

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

const (
	MinReviewLength = 10
	MaxReviewLength = 2000

	// MaxUploadSize is the largest CSV accepted, 10 MiB.
	MaxUploadSize int64 = 10 << 20

	// MaxUploadBody caps a whole multipart request: the file plus 1 MiB
	// for boundaries, headers and other fields.
	MaxUploadBody = MaxUploadSize + 1<<20

	// SniffSize is how many leading bytes of an upload are inspected.
	SniffSize = 3072
)

var (
	ErrReviewRequired = errors.New("review is required")
	ErrReviewTooShort = errors.New("review is too short")
	ErrReviewTooLong  = errors.New("review is too long")

	ErrFileRequired = errors.New("file is required")
	ErrEmptyFile    = errors.New("file is empty")
	ErrNotCSV       = errors.New("file is not a CSV")
	ErrFileTooLarge = errors.New("file exceeds the upload limit")
)

var validate = validator.New()

// ReviewInput is the single-review form.
type ReviewInput struct {
	Review string `validate:"required,min=10,max=2000"`
}

// UploadInput describes an uploaded file.
type UploadInput struct {
	Filename string `validate:"required"`
	Size     int64  `validate:"gt=0,lte=10485760"`
}

// Review trims text and checks it against the length bounds.
// Lengths are counted in characters, not bytes.
func Review(text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := validate.Struct(ReviewInput{Review: text}); err != nil {
		return text, reviewError(err)
	}
	return text, nil
}

func reviewError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Tag() {
	case "required":
		return ErrReviewRequired
	case "min":
		return ErrReviewTooShort
	case "max":
		return ErrReviewTooLong
	}
	return err
}

// Upload checks the name, size and leading bytes of an uploaded CSV.
func Upload(filename string, size int64, head []byte) error {
	if err := validate.Struct(UploadInput{Filename: filename, Size: size}); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return err
		}
		switch verrs[0].Field() {
		case "Filename":
			return ErrFileRequired
		case "Size":
			if size <= 0 {
				return ErrEmptyFile
			}
			return ErrFileTooLarge
		}
		return err
	}

	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return ErrNotCSV
	}
	if !IsText(head) {
		return ErrNotCSV
	}
	return nil
}

// IsText reports whether the sniffed content is plain text or one of its
// descendants (text/csv among them).
func IsText(head []byte) bool {
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
