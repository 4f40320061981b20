package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVideoLink(t *testing.T) {
	tests := []struct {
		link string
		ok   bool
	}{
		{"https://youtube.com/watch?v=x", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"http://youtu.be/dQw4w9WgXcQ", true},
		{"https://YOUTUBE.com/watch?v=x", true},
		{"not-a-url", false},
		{"", false},
		{"ftp://youtube.com/video", false},
		{"https://vimeo.com/123", false},
		{"https://youtube.com.evil.example/watch?v=x", false},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.ok, IsVideoLink(tt.link))
		})
	}
}

type lessonBody struct {
	Title string  `json:"title" validate:"required,max=100"`
	Link  *string `json:"link" validate:"omitempty,videolink"`
}

func TestValidateLesson(t *testing.T) {
	v := New()
	good := "https://youtube.com/watch?v=x"
	bad := "not-a-url"

	assert.NoError(t, v.Validate(lessonBody{Title: "Intro", Link: &good}))
	assert.NoError(t, v.Validate(lessonBody{Title: "Intro"}))
	empty := ""
	assert.NoError(t, v.Validate(lessonBody{Title: "Intro", Link: &empty}))

	err := v.Validate(lessonBody{Title: "Intro", Link: &bad})
	require.Error(t, err)
	fields := FieldErrors(err)
	assert.Contains(t, fields, "link")

	fields = FieldErrors(v.Validate(lessonBody{}))
	assert.Equal(t, "title is required", fields["title"])
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
}
