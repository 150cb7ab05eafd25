package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baselinescan/baselinescan/baseline"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	service := baseline.NewService(nil)
	require.NoError(t, service.Initialize())
	return NewResolver(service)
}

func TestResolverPropertyValue(t *testing.T) {
	r := newTestResolver(t)

	var tests = []struct {
		name     string
		property string
		value    string
		wantID   string
		ok       bool
	}{
		// display has no property-level entry: the value discriminates.
		{"display flex", "display", "flex", "flexbox", true},
		{"display grid", "display", "grid", "grid", true},
		{"display uppercase value", "DISPLAY", "FLEX", "flexbox", true},
		// gap resolves at the property level regardless of value.
		{"gap", "gap", "1rem", "flexbox-gap", true},
		{"custom property", "--accent", "#f00", "custom-properties", true},
		{"unknown property", "margin-top-left", "0", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, ok := r.PropertyValue(tt.property, tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolverSelector(t *testing.T) {
	r := newTestResolver(t)

	id, status, ok := r.Selector(":has()")
	require.True(t, ok)
	assert.Equal(t, "has", id)
	assert.Equal(t, baseline.StatusLimitedAvailability, status.Status)

	id, _, ok = r.Selector("focus-visible")
	require.True(t, ok)
	assert.Equal(t, "focus-visible", id)

	_, _, ok = r.Selector(":made-up-pseudo")
	assert.False(t, ok)
}

func TestResolverAtRule(t *testing.T) {
	r := newTestResolver(t)

	id, _, ok := r.AtRule("@container")
	require.True(t, ok)
	assert.Equal(t, "container-queries", id)

	_, _, ok = r.AtRule("@unknown-rule")
	assert.False(t, ok)
}

func TestResolverAPI(t *testing.T) {
	r := newTestResolver(t)

	var tests = []struct {
		name   string
		wantID string
		ok     bool
	}{
		{"fetch", "fetch", true},
		{"IntersectionObserver", "intersection-observer", true},
		// localStorage only exists under api.Window.
		{"localStorage", "storage", true},
		{"someLocalHelper", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, ok := r.API(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestResolverAPIMember(t *testing.T) {
	r := newTestResolver(t)

	// navigator is lowercase in source but Navigator in BCD.
	id, _, ok := r.APIMember("navigator", "clipboard")
	require.True(t, ok)
	assert.Equal(t, "async-clipboard", id)

	id, _, ok = r.APIMember("Promise", "allSettled")
	require.True(t, ok)
	assert.Equal(t, "promise-allsettled", id)

	_, _, ok = r.APIMember("myObject", "myMethod")
	assert.False(t, ok)
}

func TestResolverBuiltinMethod(t *testing.T) {
	r := newTestResolver(t)

	id, _, ok := r.BuiltinMethod("replaceAll")
	require.True(t, ok)
	assert.Equal(t, "string-replaceall", id)

	id, _, ok = r.BuiltinMethod("at")
	require.True(t, ok)
	assert.Equal(t, "array-at", id)

	_, _, ok = r.BuiltinMethod("doTheThing")
	assert.False(t, ok)
}

func TestResolverElement(t *testing.T) {
	r := newTestResolver(t)

	id, _, ok := r.Element("dialog")
	require.True(t, ok)
	assert.Equal(t, "dialog", id)

	id, _, ok = r.Element("my-widget")
	require.True(t, ok)
	assert.Equal(t, "custom-elements", id)

	_, _, ok = r.Element("div")
	assert.False(t, ok)
}

func TestResolverAttribute(t *testing.T) {
	r := newTestResolver(t)

	var tests = []struct {
		name   string
		tag    string
		attr   string
		value  string
		wantID string
		ok     bool
	}{
		{"img loading", "img", "loading", "lazy", "loading-lazy", true},
		{"input type color", "input", "type", "color", "input-color", true},
		{"input type date", "input", "type", "date", "input-date", true},
		{"global popover", "div", "popover", "", "popover", true},
		{"global inert", "span", "inert", "", "inert", true},
		{"plain class attr", "div", "class", "a", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, ok := r.Attribute(tt.tag, tt.attr, tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
