package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAirlineName(t *testing.T) {
	assert.Equal(t, "IndiGo", AirlineName("6E"))
	assert.Equal(t, "Air India", AirlineName("AI"))
	assert.Equal(t, "Akasa Air", AirlineName("QP"))

	// Незнакомый код возвращается как есть, без ошибки.
	assert.Equal(t, "ZZ", AirlineName("ZZ"))
	assert.Equal(t, "", AirlineName(""))
}
