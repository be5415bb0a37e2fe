package mediatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExt(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"lowercase", "clip.mp4", ".mp4"},
		{"uppercase", "CLIP.MKV", ".mkv"},
		{"multiple dots", "my.holiday.video.mov", ".mov"},
		{"no extension", "README", ""},
		{"trailing dot", "clip.", "."},
		{"unix path", "/tmp/uploads/clip.webm", ".webm"},
		{"windows path", `C:\Users\me\clip.AVI`, ".avi"},
		{"dot in directory only", "dir.v2/clip", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ext(tt.filename))
		})
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.mp4", "a"},
		{"my.holiday.mov", "my.holiday"},
		{"noext", "noext"},
		{"../../etc/clip.mkv", "clip"},
		{`C:\videos\clip.mpg`, "clip"},
		{".hidden", ".hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Stem(tt.filename))
		})
	}
}

func TestIsSourceFile(t *testing.T) {
	accepted := []string{"a.mp4", "a.avi", "a.mov", "a.mkv", "a.webm", "a.mod", "a.mpg", "a.mpeg", "A.MPEG"}
	for _, name := range accepted {
		assert.True(t, IsSourceFile(name), name)
	}

	rejected := []string{"c.txt", "a.wmv", "a.flv", "mp4", "", "a.mp4.exe"}
	for _, name := range rejected {
		assert.False(t, IsSourceFile(name), name)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"mp4", FormatMP4, true},
		{"WEBM", FormatWebM, true},
		{" mov ", FormatMOV, true},
		{"avi", FormatAVI, true},
		{"mkv", Format("mkv"), false},
		{"", Format(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFormat(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, ".webm", FormatWebM.Extension())
	assert.Equal(t, "mov", FormatMOV.Muxer())
	assert.Equal(t, "video/quicktime", FormatMOV.MimeType())
	assert.Equal(t, "video/x-msvideo", FormatAVI.MimeType())
	assert.Equal(t, "flv", Format("flv").Muxer())
}

func TestGetMimeType(t *testing.T) {
	assert.Equal(t, "video/mp4", GetMimeType(".mp4"))
	assert.Equal(t, "application/zip", GetMimeType(".zip"))
	assert.Equal(t, "application/octet-stream", GetMimeType(".xyz"))
}
