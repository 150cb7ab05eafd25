package baseline

// fallbackDataset returns a built-in minimal dataset covering the
// highest-traffic features. It is installed when the embedded primary
// dataset fails to decode, keeping the engine functional in a degraded
// state until the background upgrade succeeds.
func fallbackDataset() []byte {
	return []byte(`[
  {
    "id": "flexbox",
    "name": "Flexbox",
    "description": "CSS flexible box layout.",
    "status": {"baseline": "high", "baseline_high_date": "2017-03-09", "baseline_low_date": "2014-09-18",
      "support": {"chrome": "29", "edge": "12", "firefox": "28", "safari": "9"}},
    "compat_features": ["css.properties.display.flex", "css.properties.flex", "css.properties.justify-content", "css.properties.align-items"]
  },
  {
    "id": "grid",
    "name": "Grid",
    "description": "CSS grid layout.",
    "status": {"baseline": "high", "baseline_high_date": "2020-01-15", "baseline_low_date": "2017-07-29",
      "support": {"chrome": "57", "edge": "16", "firefox": "52", "safari": "10.1"}},
    "compat_features": ["css.properties.display.grid", "css.properties.grid-template-columns", "css.properties.grid-template-rows"]
  },
  {
    "id": "flexbox-gap",
    "name": "gap (flexbox)",
    "description": "The gap property in flex containers.",
    "status": {"baseline": "high", "baseline_high_date": "2023-10-24", "baseline_low_date": "2021-04-13",
      "support": {"chrome": "84", "edge": "84", "firefox": "63", "safari": "14.1"}},
    "compat_features": ["css.properties.gap", "css.properties.row-gap", "css.properties.column-gap"]
  },
  {
    "id": "has",
    "name": ":has()",
    "description": "The :has() relational pseudo-class.",
    "status": {"baseline": false,
      "support": {"chrome": "105", "edge": "105", "safari": "15.4"}},
    "compat_features": ["css.selectors.has"]
  },
  {
    "id": "fetch",
    "name": "Fetch",
    "description": "The fetch() method for network requests.",
    "status": {"baseline": "high", "baseline_high_date": "2017-09-19", "baseline_low_date": "2015-09-30",
      "support": {"chrome": "42", "edge": "14", "firefox": "39", "safari": "10.1"}},
    "compat_features": ["api.fetch", "api.Response", "api.Request"]
  },
  {
    "id": "optional-chaining",
    "name": "Optional chaining",
    "description": "The ?. operator.",
    "status": {"baseline": "high", "baseline_high_date": "2023-01-14", "baseline_low_date": "2020-07-28",
      "support": {"chrome": "80", "edge": "80", "firefox": "74", "safari": "13.1"}},
    "compat_features": ["javascript.operators.optional_chaining"]
  },
  {
    "id": "nullish-coalescing",
    "name": "Nullish coalescing",
    "description": "The ?? operator.",
    "status": {"baseline": "high", "baseline_high_date": "2023-01-14", "baseline_low_date": "2020-07-28",
      "support": {"chrome": "80", "edge": "80", "firefox": "72", "safari": "13.1"}},
    "compat_features": ["javascript.operators.nullish_coalescing"]
  },
  {
    "id": "dialog",
    "name": "<dialog>",
    "description": "The dialog element.",
    "status": {"baseline": "high", "baseline_high_date": "2024-09-14", "baseline_low_date": "2022-03-14",
      "support": {"chrome": "37", "edge": "79", "firefox": "98", "safari": "15.4"}},
    "compat_features": ["html.elements.dialog", "api.HTMLDialogElement"]
  },
  {
    "id": "loading-lazy",
    "name": "Lazy loading",
    "description": "The loading=lazy attribute on images and iframes.",
    "status": {"baseline": "high", "baseline_high_date": "2023-10-24", "baseline_low_date": "2022-10-24",
      "support": {"chrome": "77", "edge": "79", "firefox": "75", "safari": "15.4"}},
    "compat_features": ["html.elements.img.loading", "html.elements.iframe.loading"]
  },
  {
    "id": "container-queries",
    "name": "Container queries",
    "description": "Size container queries with @container.",
    "status": {"baseline": "low", "baseline_low_date": "2023-02-14",
      "support": {"chrome": "105", "edge": "105", "firefox": "110", "safari": "16"}},
    "compat_features": ["css.at-rules.container", "css.properties.container-type", "css.properties.container-name"]
  }
]`)
}
