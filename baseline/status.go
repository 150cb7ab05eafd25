package baseline

// deriveStatus converts a dataset entry's raw status block into a Status
// snapshot. Pure: two calls over the same entry yield deep-equal results.
func deriveStatus(f *Feature) Status {
	s := Status{}

	switch f.Status.Baseline {
	case "high":
		s.Status = StatusWidelyAvailable
		s.BaselineDate = f.Status.BaselineHighDate
	case "low":
		s.Status = StatusNewlyAvailable
		s.BaselineDate = f.Status.BaselineLowDate
	default:
		s.Status = StatusLimitedAvailability
	}
	s.HighDate = f.Status.BaselineHighDate
	s.LowDate = f.Status.BaselineLowDate

	if len(f.Status.Support) > 0 {
		s.Support = make(map[string]BrowserSupport, len(f.Status.Support))
		for browser, version := range f.Status.Support {
			s.Support[browser] = BrowserSupport{VersionAdded: version}
		}
	}

	return s
}
