package resources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talktimer/resources"
)

func TestIconLoadsAndCaches(t *testing.T) {
	first, err := resources.Icon("app.svg")
	require.NoError(t, err)
	assert.Equal(t, "app.svg", first.Name())
	assert.Contains(t, string(first.Content()), "<svg")

	second := resources.MustIcon("app.svg")
	assert.Same(t, first, second)
}

func TestMissingIcon(t *testing.T) {
	_, err := resources.Icon("absent.svg")
	assert.ErrorContains(t, err, "load resource icons/absent.svg")
	assert.Panics(t, func() { resources.MustIcon("absent.svg") })
}
