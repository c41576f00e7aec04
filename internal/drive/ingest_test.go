package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Morning Brief.mp3", "morning-brief.mp3"},
		{"Weekend Wrap (final) v2.MP3", "weekend-wrap-final-v2.mp3"},
		{"no extension", "no-extension"},
		{"über.wav", "ber.wav"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestIsAudio(t *testing.T) {
	assert.True(t, isAudio("x.bin", "audio/mpeg"))
	assert.True(t, isAudio("Take.MP3", "application/octet-stream"))
	assert.True(t, isAudio("session.wav", ""))
	assert.False(t, isAudio("cover.jpg", "image/jpeg"))
	assert.False(t, isAudio("notes.txt", "text/plain"))
}
