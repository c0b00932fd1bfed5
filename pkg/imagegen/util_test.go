package imagegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMimeForFormat(t *testing.T) {
	assert.Equal(t, "image/png", MimeForFormat("png"))
	assert.Equal(t, "image/jpeg", MimeForFormat("jpeg"))
	assert.Equal(t, "image/jpeg", MimeForFormat("JPG"))
	assert.Equal(t, "image/webp", MimeForFormat("webp"))
	assert.Equal(t, "image/png", MimeForFormat(""))
}

func TestValidateRemoteHost(t *testing.T) {
	t.Run("パース不能なURLは拒否される", func(t *testing.T) {
		assert.Error(t, validateRemoteHost("not-a-url"))
	})

	t.Run("ループバックアドレスは拒否される", func(t *testing.T) {
		assert.Error(t, validateRemoteHost("http://127.0.0.1/style.png"))
	})

	t.Run("プライベートアドレスは拒否される", func(t *testing.T) {
		assert.Error(t, validateRemoteHost("http://192.168.1.10/style.png"))
	})

	t.Run("グローバルアドレスは許可される", func(t *testing.T) {
		assert.NoError(t, validateRemoteHost("https://203.0.113.10/style.png"))
	})
}
