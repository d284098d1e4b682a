package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	assert.Equal(t, "fallback", GetEnvString("NEWSFEED_TEST_STR", "fallback"))
	t.Setenv("NEWSFEED_TEST_STR", "set")
	assert.Equal(t, "set", GetEnvString("NEWSFEED_TEST_STR", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 7},
		{"42", 42},
		{" 12 ", 12},
		{"-3", -3},
		{"4x", 7},
		{"1.5", 7},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("NEWSFEED_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("NEWSFEED_TEST_INT", 7))
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("NEWSFEED_TEST_FLOAT", "0.5")
	assert.Equal(t, 0.5, GetEnvFloat("NEWSFEED_TEST_FLOAT", 2))
	t.Setenv("NEWSFEED_TEST_FLOAT", "half")
	assert.Equal(t, 2.0, GetEnvFloat("NEWSFEED_TEST_FLOAT", 2))
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"false", false},
		{"0", false},
		{"TRUE", true},
		{"yes", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("NEWSFEED_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("NEWSFEED_TEST_BOOL", true))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("NEWSFEED_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("NEWSFEED_TEST_DUR", time.Second))
	t.Setenv("NEWSFEED_TEST_DUR", "soon")
	assert.Equal(t, time.Second, GetEnvDuration("NEWSFEED_TEST_DUR", time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	def := []string{"a"}
	assert.Equal(t, def, GetEnvStringList("NEWSFEED_TEST_LIST", def))

	t.Setenv("NEWSFEED_TEST_LIST", " top , ,latest,")
	assert.Equal(t, []string{"top", "latest"}, GetEnvStringList("NEWSFEED_TEST_LIST", def))

	t.Setenv("NEWSFEED_TEST_LIST", " , ")
	assert.Equal(t, def, GetEnvStringList("NEWSFEED_TEST_LIST", def))
}
