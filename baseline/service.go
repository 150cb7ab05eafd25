package baseline

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

//go:embed data/features.json
var primaryDataset []byte

// retryDelay is the pause before a background attempt to upgrade from the
// fallback dataset to the primary one. Variable so tests can shorten it.
var retryDelay = 30 * time.Second

// Service owns the in-memory index over the compatibility dataset. It is
// created once per process and shared by all analyzers; reads are lock-free
// after Initialize apart from an RWMutex read lock.
type Service struct {
	logger hclog.Logger

	mu            sync.RWMutex
	initialized   bool
	usingFallback bool
	features      map[string]*Feature
	order         []string          // feature ids, sorted, for deterministic enumeration
	bcdIndex      map[string]string // BCD compat key -> feature id

	cacheMu     sync.RWMutex
	statusCache map[string]Status
	searchCache map[string][]Feature

	// primary supplies the primary dataset bytes. Injectable so the
	// background retry can observe a source that has changed since the
	// failed first load.
	primary func() []byte
}

// NewService creates an uninitialized service. Initialize must complete
// before any lookup returns data.
func NewService(logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Service{
		logger:      logger.Named("baseline"),
		statusCache: make(map[string]Status),
		searchCache: make(map[string][]Feature),
		primary:     func() []byte { return primaryDataset },
	}
}

// Initialize loads and indexes the dataset. It is idempotent: once a load
// has succeeded, subsequent calls are no-ops. If the primary dataset fails
// to decode, the built-in fallback dataset is installed instead and a
// background upgrade to the primary is scheduled. An error is returned only
// when both sources fail.
func (s *Service) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	features, err := decodeDataset(s.primary())
	if err == nil {
		s.install(features, false)
		s.logger.Debug("primary dataset loaded", "features", len(features))
		return nil
	}
	s.logger.Warn("primary dataset failed to load, installing fallback", "error", err)

	fallback, ferr := decodeDataset(fallbackDataset())
	if ferr != nil {
		return fmt.Errorf("dataset load failed: primary: %v, fallback: %w", err, ferr)
	}
	s.install(fallback, true)

	go s.retryPrimary()
	return nil
}

// retryPrimary attempts a one-shot background upgrade from the fallback
// dataset to the primary.
func (s *Service) retryPrimary() {
	time.Sleep(retryDelay)

	features, err := decodeDataset(s.primary())
	if err != nil {
		s.logger.Warn("background dataset upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	if s.usingFallback {
		s.install(features, false)
		s.logger.Info("upgraded to primary dataset", "features", len(features))
	}
	s.mu.Unlock()

	s.ClearCache()
}

// install indexes a decoded dataset. Caller holds s.mu.
func (s *Service) install(features []Feature, fallback bool) {
	byID := make(map[string]*Feature, len(features))
	bcd := make(map[string]string)
	order := make([]string, 0, len(features))

	for i := range features {
		f := &features[i]
		byID[f.ID] = f
		order = append(order, f.ID)
		for _, key := range f.CompatFeatures {
			if _, taken := bcd[key]; !taken {
				bcd[key] = f.ID
			}
		}
	}
	sort.Strings(order)

	s.features = byID
	s.order = order
	s.bcdIndex = bcd
	s.usingFallback = fallback
	s.initialized = true
}

func decodeDataset(raw []byte) ([]Feature, error) {
	var features []Feature
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	return features, nil
}

// Initialized reports whether a dataset (primary or fallback) is loaded.
func (s *Service) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// GetFeatureStatus returns the classification snapshot for a feature id.
// Unknown ids and an uninitialized service yield ok=false, never an error.
func (s *Service) GetFeatureStatus(id string) (Status, bool) {
	if id == "" {
		return Status{}, false
	}

	s.cacheMu.RLock()
	cached, hit := s.statusCache[id]
	s.cacheMu.RUnlock()
	if hit {
		return cached, true
	}

	s.mu.RLock()
	feature, ok := s.features[id]
	s.mu.RUnlock()
	if !ok {
		return Status{}, false
	}

	status := deriveStatus(feature)
	s.cacheMu.Lock()
	s.statusCache[id] = status
	s.cacheMu.Unlock()
	return status, true
}

// LookupBCD maps a browser-compat-data key (e.g. "css.properties.gap") to
// the id of the feature that owns it.
func (s *Service) LookupBCD(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bcdIndex[key]
	return id, ok
}

// GetFeatureDetails returns the full view of a feature, synthesizing a
// generic description when the dataset entry has none.
func (s *Service) GetFeatureDetails(id string) (FeatureDetails, bool) {
	s.mu.RLock()
	feature, ok := s.features[id]
	s.mu.RUnlock()
	if !ok {
		return FeatureDetails{}, false
	}
	return s.details(feature), true
}

// GetAllFeatures enumerates every dataset entry in id order. The feature
// snapshot is taken under the read lock, then statuses are derived without
// it: details re-enters GetFeatureStatus, and sync.RWMutex read locks must
// not nest across a queued writer.
func (s *Service) GetAllFeatures() []FeatureDetails {
	s.mu.RLock()
	features := make([]*Feature, 0, len(s.order))
	for _, id := range s.order {
		features = append(features, s.features[id])
	}
	s.mu.RUnlock()

	all := make([]FeatureDetails, 0, len(features))
	for _, f := range features {
		all = append(all, s.details(f))
	}
	return all
}

func (s *Service) details(f *Feature) FeatureDetails {
	description := f.Description
	if description == "" {
		description = fmt.Sprintf("Web platform feature: %s", f.Name)
	}
	status, _ := s.GetFeatureStatus(f.ID)
	return FeatureDetails{
		ID:          f.ID,
		Name:        f.Name,
		Description: description,
		Spec:        f.Spec,
		Group:       f.Group,
		Baseline:    status,
	}
}

// ClearCache drops all derived caches. The loaded dataset itself is kept;
// subsequent lookups repopulate the caches. Safe to call while reads are in
// flight: the maps are swapped wholesale, not cleared cell by cell.
func (s *Service) ClearCache() {
	s.cacheMu.Lock()
	s.statusCache = make(map[string]Status)
	s.searchCache = make(map[string][]Feature)
	s.cacheMu.Unlock()
}

// Stats reports dataset and cache sizes for diagnostics tooling.
func (s *Service) Stats() CacheStats {
	s.mu.RLock()
	total := len(s.features)
	bcd := len(s.bcdIndex)
	fallback := s.usingFallback
	s.mu.RUnlock()
	return CacheStats{TotalFeatures: total, BCDCacheSize: bcd, UsingFallback: fallback}
}
