package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "WORD_LENGTH", "MAX_TURNS", "JWT_EXPIRES_DAYS", "NODE_ENV", "WORDS_ALLOWED_FILE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, 5, c.WordLength)
	assert.Equal(t, 6, c.MaxTurns)
	assert.Equal(t, 14*24*time.Hour, c.JWTTTL)
	assert.Equal(t, "", c.AllowedFile)
	assert.False(t, c.Production)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("WORD_LENGTH", "6")
	t.Setenv("MAX_TURNS", "not-a-number")
	t.Setenv("NODE_ENV", "production")
	c := FromEnv()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 6, c.WordLength)
	assert.Equal(t, 6, c.MaxTurns, "bad values fall back to the default")
	assert.True(t, c.Production)
}

func TestLoadReadsDotEnv(t *testing.T) {
	t.Setenv("DAILY_SALT", "")
	os.Unsetenv("DAILY_SALT")
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("DAILY_SALT=from_file\n"), 0o644))

	c := Load(p)
	assert.Equal(t, "from_file", c.DailySalt)
}
