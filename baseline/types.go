package baseline

import (
	"encoding/json"
	"fmt"
)

// Baseline availability tiers as defined by the web-features dataset.
const (
	StatusWidelyAvailable     = "widely_available"
	StatusNewlyAvailable      = "newly_available"
	StatusLimitedAvailability = "limited_availability"
)

// BrowserSupport records when a browser gained (and possibly lost) a feature.
type BrowserSupport struct {
	VersionAdded   string `json:"version_added"`
	VersionRemoved string `json:"version_removed,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Status is a snapshot of a feature's compatibility classification.
// It is copied into detection results at detection time and never
// mutated afterwards.
type Status struct {
	Status       string                    `json:"status"`
	BaselineDate string                    `json:"baseline_date,omitempty"`
	HighDate     string                    `json:"high_date,omitempty"`
	LowDate      string                    `json:"low_date,omitempty"`
	Support      map[string]BrowserSupport `json:"support,omitempty"`
}

// featureStatus mirrors the status block of a web-features dataset entry.
type featureStatus struct {
	Baseline         baselineTier      `json:"baseline"`
	BaselineHighDate string            `json:"baseline_high_date,omitempty"`
	BaselineLowDate  string            `json:"baseline_low_date,omitempty"`
	Support          map[string]string `json:"support,omitempty"`
}

// baselineTier decodes the dataset's baseline field, which is the string
// "high" or "low" for features in Baseline and the JSON literal false for
// features outside it.
type baselineTier string

func (b *baselineTier) UnmarshalJSON(data []byte) error {
	var tier string
	if err := json.Unmarshal(data, &tier); err == nil {
		*b = baselineTier(tier)
		return nil
	}
	var flag bool
	if err := json.Unmarshal(data, &flag); err != nil {
		return fmt.Errorf("unexpected baseline value %s", data)
	}
	*b = ""
	return nil
}

// Feature is one entry of the compatibility dataset.
type Feature struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Spec           string        `json:"spec,omitempty"`
	Group          string        `json:"group,omitempty"`
	Status         featureStatus `json:"status"`
	CompatFeatures []string      `json:"compat_features,omitempty"`
}

// FeatureDetails is the enumeration/hover view of a feature. Description
// is always non-empty; the service synthesizes one when the dataset entry
// lacks it.
type FeatureDetails struct {
	ID          string
	Name        string
	Description string
	Spec        string
	Group       string
	Baseline    Status
}

// CacheStats reports the size of the loaded dataset and derived caches.
type CacheStats struct {
	TotalFeatures int
	BCDCacheSize  int
	UsingFallback bool
}
