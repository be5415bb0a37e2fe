package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"video-converter/internal/mediatypes"
	"video-converter/internal/transcoder"
)

// DefaultMaxFileSize is the per-file ceiling applied when none is configured.
const DefaultMaxFileSize int64 = 500 << 20

var (
	// ErrNoFiles means the request carried no video file field at all.
	ErrNoFiles = errors.New("No video files provided")
	// ErrNoFilesSelected means the file field was present but every entry was unnamed.
	ErrNoFilesSelected = errors.New("No files selected")
	// ErrEmptyFile means an upload has no filename.
	ErrEmptyFile = errors.New("Empty file")
	// ErrInvalidSourceFormat means the upload's extension is not accepted.
	ErrInvalidSourceFormat = errors.New("Invalid file format")
	// ErrFileTooLarge means the upload exceeds the per-file ceiling.
	ErrFileTooLarge = errors.New("File too large")
	// ErrInvalidOutputFormat means the requested target format is not supported.
	ErrInvalidOutputFormat = errors.New("Invalid output format")
	// ErrInvalidQuality means the requested quality tier is unknown.
	ErrInvalidQuality = errors.New("Invalid quality setting")
)

// Params are the request-level conversion parameters.
type Params struct {
	Format  string `validate:"required,oneof=mp4 avi mov webm"`
	Quality string `validate:"required,quality"`
}

// Validator applies upload and parameter rules.
type Validator struct {
	maxFileSize int64
	validate    *validator.Validate
}

// New creates a Validator. A non-positive maxFileSize selects DefaultMaxFileSize.
func New(maxFileSize int64) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	validate := validator.New()
	mustRegister(validate, "quality", func(fl validator.FieldLevel) bool {
		return transcoder.IsQuality(fl.Field().String())
	})

	return &Validator{maxFileSize: maxFileSize, validate: validate}
}

// mustRegister adds a custom rule and panics if the validator rejects it.
func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// MaxFileSize returns the per-file ceiling in bytes.
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// ValidateUpload checks one uploaded file. size is the declared length; a
// negative size means unknown and is not checked here.
func (v *Validator) ValidateUpload(filename string, size int64) error {
	if filename == "" {
		return ErrEmptyFile
	}
	if !mediatypes.IsSourceFile(filename) {
		return ErrInvalidSourceFormat
	}
	if size > v.maxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// ValidateRequestParams checks the target format and quality tier. Both are
// matched case-insensitively.
func (v *Validator) ValidateRequestParams(format, quality string) error {
	err := v.validate.Struct(Params{Format: strings.ToLower(format), Quality: strings.ToLower(quality)})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		// Format is declared first so it is reported first, as clients expect.
		switch fieldErrs[0].Field() {
		case "Format":
			return ErrInvalidOutputFormat
		case "Quality":
			return ErrInvalidQuality
		}
	}
	return err
}

// NormalizeQuality lowercases a client-supplied quality tier and applies the
// default when none was given.
func NormalizeQuality(quality string, present bool) string {
	if !present {
		return transcoder.DefaultQuality
	}
	return strings.ToLower(quality)
}
