package baseline

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(nil)
	require.NoError(t, s.Initialize())
	return s
}

func TestInitializeIsIdempotent(t *testing.T) {
	s := newTestService(t)
	before := s.Stats()

	require.NoError(t, s.Initialize())
	assert.Equal(t, before, s.Stats())
}

func TestGetFeatureStatus(t *testing.T) {
	s := newTestService(t)

	var tests = []struct {
		id   string
		want string
		ok   bool
	}{
		{"flexbox", StatusWidelyAvailable, true},
		{"container-queries", StatusNewlyAvailable, true},
		{"has", StatusLimitedAvailability, true},
		{"no-such-feature", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			status, ok := s.GetFeatureStatus(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, status.Status)
		})
	}
}

func TestGetFeatureStatusIsPure(t *testing.T) {
	s := newTestService(t)

	first, ok := s.GetFeatureStatus("flexbox")
	require.True(t, ok)
	second, ok := s.GetFeatureStatus("flexbox")
	require.True(t, ok)
	assert.Equal(t, first, second)

	s.ClearCache()
	third, ok := s.GetFeatureStatus("flexbox")
	require.True(t, ok)
	assert.Equal(t, first, third)
}

func TestLookupBCD(t *testing.T) {
	s := newTestService(t)

	id, ok := s.LookupBCD("css.properties.display.flex")
	require.True(t, ok)
	assert.Equal(t, "flexbox", id)

	id, ok = s.LookupBCD("css.properties.gap")
	require.True(t, ok)
	assert.Equal(t, "flexbox-gap", id)

	_, ok = s.LookupBCD("css.properties.not-a-property")
	assert.False(t, ok)
}

func TestGetFeatureDetails(t *testing.T) {
	s := newTestService(t)

	details, ok := s.GetFeatureDetails("dialog")
	require.True(t, ok)
	assert.Equal(t, "dialog", details.ID)
	assert.NotEmpty(t, details.Name)
	assert.NotEmpty(t, details.Description)
	assert.Equal(t, StatusWidelyAvailable, details.Baseline.Status)

	_, ok = s.GetFeatureDetails("no-such-feature")
	assert.False(t, ok)
}

func TestGetFeatureDetailsSynthesizesDescription(t *testing.T) {
	s := NewService(nil)
	s.install([]Feature{{ID: "bare", Name: "Bare Feature"}}, false)

	details, ok := s.GetFeatureDetails("bare")
	require.True(t, ok)
	assert.Equal(t, "Web platform feature: Bare Feature", details.Description)
}

func TestGetAllFeaturesOrderedByID(t *testing.T) {
	s := newTestService(t)

	all := s.GetAllFeatures()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}

func TestGetAllFeaturesConcurrentWithWriters(t *testing.T) {
	s := newTestService(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					_ = s.GetAllFeatures()
					_ = s.Initialize() // no-op writer contending on the lock
					s.ClearCache()
				}
			}()
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("enumeration deadlocked against a queued writer")
	}
}

func TestFallbackUpgradesToPrimary(t *testing.T) {
	oldDelay := retryDelay
	retryDelay = 10 * time.Millisecond
	defer func() { retryDelay = oldDelay }()

	s := NewService(nil)
	var calls int32
	s.primary = func() []byte {
		if atomic.AddInt32(&calls, 1) == 1 {
			return []byte("not json")
		}
		return primaryDataset
	}

	require.NoError(t, s.Initialize())
	assert.True(t, s.Stats().UsingFallback)

	assert.Eventually(t, func() bool {
		return !s.Stats().UsingFallback
	}, 5*time.Second, 20*time.Millisecond)
	assert.Greater(t, s.Stats().TotalFeatures, 50)
}

func TestClearCacheKeepsDataset(t *testing.T) {
	s := newTestService(t)

	before, ok := s.GetFeatureStatus("fetch")
	require.True(t, ok)

	s.ClearCache()

	after, ok := s.GetFeatureStatus("fetch")
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.True(t, s.Initialized())
}

func TestStats(t *testing.T) {
	s := newTestService(t)

	stats := s.Stats()
	assert.Greater(t, stats.TotalFeatures, 50)
	assert.Greater(t, stats.BCDCacheSize, stats.TotalFeatures)
	assert.False(t, stats.UsingFallback)
}

func TestFallbackDatasetDecodes(t *testing.T) {
	features, err := decodeDataset(fallbackDataset())
	require.NoError(t, err)
	assert.NotEmpty(t, features)

	byID := make(map[string]bool)
	for _, f := range features {
		byID[f.ID] = true
	}
	assert.True(t, byID["flexbox"])
	assert.True(t, byID["has"])
}

func TestDecodeDatasetRejectsGarbage(t *testing.T) {
	_, err := decodeDataset([]byte(`{"not": "an array"}`))
	assert.Error(t, err)

	_, err = decodeDataset([]byte(`[]`))
	assert.Error(t, err)
}
