package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinutesToHours(t *testing.T) {
	assert.Equal(t, 0.0, MinutesToHours(0))
	assert.Equal(t, 1.5, MinutesToHours(90))
	assert.Equal(t, 1.33, MinutesToHours(80))
	assert.Equal(t, 0.02, MinutesToHours(1))
}
