package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baselinescan/baselinescan/diagnostics"
)

func analyzeJS(t *testing.T, content string) []DetectedFeature {
	t.Helper()
	engine := newTestEngine(t, Options{})
	features, errs := engine.Analyze(context.Background(), content, Document{LanguageID: "javascript", FileName: "app.js"})
	require.Empty(t, errs)
	return features
}

func TestJSDetectsModernOperators(t *testing.T) {
	content := "const city = user?.address?.city ?? 'unknown';\n"
	features := analyzeJS(t, content)

	chain, ok := findFeature(features, "optional-chaining")
	require.True(t, ok)
	assert.Equal(t, FeatureJavaScript, chain.Type)
	assert.Equal(t, SeverityInfo, chain.Severity)
	assert.Equal(t, strings.Index(content, "?."), chain.Range.Start.Column)

	nullish, ok := findFeature(features, "nullish-coalescing")
	require.True(t, ok)
	assert.Equal(t, strings.Index(content, "??"), nullish.Range.Start.Column)
}

func TestJSDetectsFetchCall(t *testing.T) {
	content := "fetch('/api/data').then(r => r.json());"
	features := analyzeJS(t, content)

	f, ok := findFeature(features, "fetch")
	require.True(t, ok)
	assert.Equal(t, "fetch", f.Name)
	assert.Equal(t, 0, f.Range.Start.Column)
	assert.Equal(t, len("fetch"), f.Range.End.Column)
}

func TestJSDetectsConstructors(t *testing.T) {
	content := "const io = new IntersectionObserver(onScroll);\nconst ro = new ResizeObserver(onResize);\n"
	features := analyzeJS(t, content)

	ids := featureIDs(features)
	assert.Contains(t, ids, "intersection-observer")
	assert.Contains(t, ids, "resize-observer")
}

func TestJSDetectsMemberAPIs(t *testing.T) {
	content := "await navigator.clipboard.writeText(text);\nlocalStorage.setItem('k', 'v');\n"
	features := analyzeJS(t, content)

	clipboard, ok := findFeature(features, "async-clipboard")
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, clipboard.Severity)

	assert.Contains(t, featureIDs(features), "storage")
}

func TestJSDetectsBuiltinMethods(t *testing.T) {
	features := analyzeJS(t, "const winners = await Promise.any(requests);")
	assert.Contains(t, featureIDs(features), "promise-any")
}

func TestJSDetectsLogicalAssignment(t *testing.T) {
	features := analyzeJS(t, "config.retries ??= 3;\nflags.debug ||= false;\n")

	ids := featureIDs(features)
	assert.Contains(t, ids, "logical-assignments")
}

func TestJSDetectsTopLevelAwait(t *testing.T) {
	features := analyzeJS(t, "const data = await fetch('/boot.json');")
	assert.Contains(t, featureIDs(features), "top-level-await")
}

func TestJSIgnoresAwaitInsideFunctions(t *testing.T) {
	features := analyzeJS(t, "async function load() { return await fetch('/x'); }")
	assert.NotContains(t, featureIDs(features), "top-level-await")
	assert.Contains(t, featureIDs(features), "fetch")
}

func TestJSDetectsDynamicImport(t *testing.T) {
	features := analyzeJS(t, "const mod = await import('./heavy.js');")
	assert.Contains(t, featureIDs(features), "dynamic-import")
}

func TestJSDetectsCSSInJS(t *testing.T) {
	content := "const Button = styled.button`display: flex; gap: 1rem;`;\n"
	features := analyzeJS(t, content)

	flex, ok := findFeature(features, "flexbox")
	require.True(t, ok)
	assert.Equal(t, FeatureCSS, flex.Type)
	assert.Equal(t, "CSS-in-JS", flex.Context)
	assert.Equal(t, 0, flex.Range.Start.Line)
	assert.Equal(t, strings.Index(content, "display"), flex.Range.Start.Column)

	gap, ok := findFeature(features, "flexbox-gap")
	require.True(t, ok)
	assert.Equal(t, strings.Index(content, "gap"), gap.Range.Start.Column)
}

func TestJSDetectsCSSTaggedTemplate(t *testing.T) {
	content := "const style = css`\n  display: grid;\n`;\n"
	features := analyzeJS(t, content)

	grid, ok := findFeature(features, "grid")
	require.True(t, ok)
	assert.Equal(t, "CSS-in-JS", grid.Context)
	assert.Equal(t, 1, grid.Range.Start.Line)
	assert.Equal(t, 2, grid.Range.Start.Column)
}

func TestCSSInJSBlanksInterpolations(t *testing.T) {
	content := "const Box = styled.div`display: flex; color: ${props => props.color};`;\n"
	features := analyzeJS(t, content)

	flex, ok := findFeature(features, "flexbox")
	require.True(t, ok)
	assert.Equal(t, strings.Index(content, "display"), flex.Range.Start.Column)
}

func TestJSSyntaxErrorRecordsOneError(t *testing.T) {
	engine := newTestEngine(t, Options{})
	content := "fetch('/x');\nconst broken = {"

	features, errs := engine.Analyze(context.Background(), content, Document{LanguageID: "javascript", FileName: "broken.js"})
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.KindParsing, errs[0].Kind)
	assert.Equal(t, "broken.js", errs[0].File)
	assert.Contains(t, featureIDs(features), "fetch")
}

func TestJSEmptyContent(t *testing.T) {
	engine := newTestEngine(t, Options{})
	features, errs := engine.Analyze(context.Background(), "", Document{LanguageID: "javascript", FileName: "x.js"})
	assert.Empty(t, features)
	assert.Empty(t, errs)
}

func TestTypeScriptSources(t *testing.T) {
	engine := newTestEngine(t, Options{})
	content := "interface User { name: string }\nconst u: User | undefined = cache.get(id);\nconst name = u?.name ?? 'anon';\n"

	features, errs := engine.Analyze(context.Background(), content, Document{LanguageID: "typescript", FileName: "user.ts"})
	require.Empty(t, errs)
	ids := featureIDs(features)
	assert.Contains(t, ids, "optional-chaining")
	assert.Contains(t, ids, "nullish-coalescing")
}
