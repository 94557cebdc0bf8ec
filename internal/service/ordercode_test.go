package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderCodeFormat(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	code, err := newOrderCode(now)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-20260828-\w{6}$`), code)
}

func TestNewOrderCodeVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := newOrderCode(now)
		require.NoError(t, err)
		seen[code] = true
	}
	// nanorand может столкнуться, но 20 подряд одинаковых — признак поломки
	assert.Greater(t, len(seen), 1)
}
