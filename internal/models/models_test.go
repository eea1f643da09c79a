package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject_Slug(t *testing.T) {
	assert.Equal(t, "mathematics", SubjectMathematics.Slug())
	assert.Equal(t, "english-language", SubjectEnglish.Slug())
	assert.Equal(t, "christian-religious-studies", SubjectCRS.Slug())
}

func TestParseSubject(t *testing.T) {
	s, ok := ParseSubject("literature-in-english")
	assert.True(t, ok)
	assert.Equal(t, SubjectLiteratureInEnglish, s)

	s, ok = ParseSubject("Physics")
	assert.True(t, ok)
	assert.Equal(t, SubjectPhysics, s)

	_, ok = ParseSubject("geography")
	assert.False(t, ok)
}

func TestSubjects_AllValid(t *testing.T) {
	assert.Len(t, Subjects, 9)
	for _, s := range Subjects {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Subject("Art").Valid())
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", OptionLabel(0))
	assert.Equal(t, "D", OptionLabel(3))
}

func TestTutorialVideo_URLs(t *testing.T) {
	v := TutorialVideo{ID: "abc123"}
	assert.Equal(t, "https://img.youtube.com/vi/abc123/mqdefault.jpg", v.ThumbnailURL())
	assert.Equal(t, "https://www.youtube.com/embed/abc123?autoplay=1", v.EmbedURL())
}
