package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImage(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantMIME string
		wantData string
		wantErr  bool
	}{
		{name: "png data url", in: "data:image/png;base64,aGVsbG8=", wantMIME: "image/png", wantData: "hello"},
		{name: "bare base64", in: "aGVsbG8=", wantMIME: "image/jpeg", wantData: "hello"},
		{name: "missing padding", in: "aGVsbG8", wantMIME: "image/jpeg", wantData: "hello"},
		{name: "webp", in: "data:image/webp;base64,aGk=", wantMIME: "image/webp", wantData: "hi"},
		{name: "empty", in: "  ", wantErr: true},
		{name: "not an image", in: "data:text/plain;base64,aGk=", wantErr: true},
		{name: "garbage", in: "!!!", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data, err := DecodeImage(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, mime)
			assert.Equal(t, tt.wantData, string(data))
		})
	}
}

func TestStripDataURLPrefix(t *testing.T) {
	assert.Equal(t, "abc", StripDataURLPrefix("data:image/jpeg;base64,abc"))
	assert.Equal(t, "abc", StripDataURLPrefix("abc"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "八字...", Truncate("八字分析", 2))
}
