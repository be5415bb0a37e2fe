package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	v := New(1000)

	tests := []struct {
		name     string
		filename string
		size     int64
		want     error
	}{
		{"accepted", "a.mp4", 10, nil},
		{"uppercase extension", "A.MKV", 10, nil},
		{"every source extension", "clip.mod", 10, nil},
		{"at ceiling", "a.webm", 1000, nil},
		{"unknown size", "a.webm", -1, nil},
		{"empty filename", "", 10, ErrEmptyFile},
		{"text file", "c.txt", 10, ErrInvalidSourceFormat},
		{"no extension", "video", 10, ErrInvalidSourceFormat},
		{"over ceiling", "big.mov", 1001, ErrFileTooLarge},
		{"format checked before size", "big.txt", 5000, ErrInvalidSourceFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.filename, tt.size)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewDefaultsMaxFileSize(t *testing.T) {
	assert.Equal(t, DefaultMaxFileSize, New(0).MaxFileSize())
	assert.Equal(t, DefaultMaxFileSize, New(-5).MaxFileSize())
	assert.Equal(t, int64(42), New(42).MaxFileSize())
}

func TestValidateRequestParams(t *testing.T) {
	v := New(0)

	tests := []struct {
		name    string
		format  string
		quality string
		want    error
	}{
		{"mp4 medium", "mp4", "medium", nil},
		{"avi very low", "avi", "very low", nil},
		{"mov very high", "mov", "very high", nil},
		{"webm uppercase quality", "webm", "HIGH", nil},
		{"unknown format", "mkv", "medium", ErrInvalidOutputFormat},
		{"uppercase format", "MP4", "medium", nil},
		{"padded format", " mp4", "medium", ErrInvalidOutputFormat},
		{"empty format", "", "medium", ErrInvalidOutputFormat},
		{"unknown quality", "mp4", "ultra", ErrInvalidQuality},
		{"empty quality", "mp4", "", ErrInvalidQuality},
		{"both invalid reports format", "flv", "ultra", ErrInvalidOutputFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRequestParams(tt.format, tt.quality)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeQuality(t *testing.T) {
	assert.Equal(t, "medium", NormalizeQuality("", false))
	assert.Equal(t, "very high", NormalizeQuality("Very High", true))
	assert.Equal(t, "", NormalizeQuality("", true))
}

func TestSentinelMessages(t *testing.T) {
	assert.Equal(t, "No video files provided", ErrNoFiles.Error())
	assert.Equal(t, "No files selected", ErrNoFilesSelected.Error())
	assert.Equal(t, "Empty file", ErrEmptyFile.Error())
	assert.Equal(t, "Invalid file format", ErrInvalidSourceFormat.Error())
	assert.Equal(t, "File too large", ErrFileTooLarge.Error())
	assert.Equal(t, "Invalid output format", ErrInvalidOutputFormat.Error())
	assert.Equal(t, "Invalid quality setting", ErrInvalidQuality.Error())
}

func TestMustRegisterPanicsOnBadRule(t *testing.T) {
	assert.Panics(t, func() {
		mustRegister(validator.New(), "", func(validator.FieldLevel) bool { return true })
	})
	assert.NotPanics(t, func() { New(0) })
}
