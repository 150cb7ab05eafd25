package baseline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFeaturesCaseInsensitive(t *testing.T) {
	s := newTestService(t)

	lower := s.SearchFeatures("flexbox")
	upper := s.SearchFeatures("FLEXBOX")
	mixed := s.SearchFeatures("FlexBox")

	require.NotEmpty(t, lower)
	assert.Equal(t, lower, upper)
	assert.Equal(t, lower, mixed)
}

func TestSearchFeaturesOrderedByID(t *testing.T) {
	s := newTestService(t)

	matches := s.SearchFeatures("css")
	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		assert.Less(t, matches[i-1].ID, matches[i].ID)
	}
}

func TestSearchFeaturesNoMatch(t *testing.T) {
	s := newTestService(t)

	assert.Empty(t, s.SearchFeatures("zzzz-no-such-feature"))
	assert.Empty(t, s.SearchFeatures(""))
	assert.Empty(t, s.SearchFeatures("   "))
}

func TestSearchFeaturesBeforeInitialize(t *testing.T) {
	s := NewService(nil)
	assert.Empty(t, s.SearchFeatures("flexbox"))

	require.NoError(t, s.Initialize())
	assert.NotEmpty(t, s.SearchFeatures("flexbox"))
}

func TestSearchFeaturesCached(t *testing.T) {
	s := newTestService(t)

	first := s.SearchFeatures("grid")
	second := s.SearchFeatures("GRID")
	assert.Equal(t, first, second)

	s.ClearCache()
	assert.Equal(t, first, s.SearchFeatures("grid"))
}
