package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, flush, err := New(Options{Level: "debug", Pretty: true, Name: "sourcing"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	defer flush()

	logger.WithField("component", "test").Debug("logger ready")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
