package analyzer

import (
	"strings"

	"github.com/baselinescan/baselinescan/baseline"
)

// Resolver maps syntax tokens onto compatibility-dataset ids. Resolution is
// dynamic: each token produces one or more candidate browser-compat-data
// keys, tried in order against the dataset's reverse index; the first hit
// wins. This covers every property, selector and API the dataset knows
// without a hand-maintained table per token.
type Resolver struct {
	service *baseline.Service
}

func NewResolver(service *baseline.Service) *Resolver {
	return &Resolver{service: service}
}

// resolve tries candidate BCD keys in order and returns the owning feature
// id and its status snapshot for the first key the dataset knows.
func (r *Resolver) resolve(candidates ...string) (string, baseline.Status, bool) {
	for _, key := range candidates {
		if id, ok := r.service.LookupBCD(key); ok {
			if status, ok := r.service.GetFeatureStatus(id); ok {
				return id, status, true
			}
		}
	}
	return "", baseline.Status{}, false
}

// Property resolves a CSS property name. Custom properties (--foo) resolve
// as a single feature.
func (r *Resolver) Property(name string) (string, baseline.Status, bool) {
	name = strings.ToLower(name)
	if strings.HasPrefix(name, "--") {
		return r.resolve("css.properties.custom-property")
	}
	return r.resolve("css.properties." + name)
}

// PropertyValue resolves a property/value pair. Policy: the property-level
// entry takes precedence; the value-specific entry is consulted only when
// the property alone is not in the dataset (display, position and similar
// discriminated properties).
func (r *Resolver) PropertyValue(property, value string) (string, baseline.Status, bool) {
	property = strings.ToLower(property)
	value = strings.ToLower(value)
	if strings.HasPrefix(property, "--") {
		return r.resolve("css.properties.custom-property")
	}
	return r.resolve(
		"css.properties."+property,
		"css.properties."+property+"."+value,
	)
}

// Selector resolves a pseudo-class or pseudo-element name without its
// leading colons.
func (r *Resolver) Selector(name string) (string, baseline.Status, bool) {
	name = strings.ToLower(strings.TrimLeft(name, ":"))
	name = strings.TrimSuffix(name, "()")
	return r.resolve("css.selectors." + name)
}

// AtRule resolves an at-rule keyword without its leading @.
func (r *Resolver) AtRule(name string) (string, baseline.Status, bool) {
	name = strings.ToLower(strings.TrimPrefix(name, "@"))
	return r.resolve("css.at-rules." + name)
}

// CSSFunction resolves a value-level function such as clamp or
// linear-gradient.
func (r *Resolver) CSSFunction(name string) (string, baseline.Status, bool) {
	name = strings.ToLower(strings.TrimSuffix(name, "("))
	return r.resolve("css.types." + name)
}

// API resolves a bare global identifier naming a Web API: constructors like
// IntersectionObserver and window-scoped functions like fetch or
// structuredClone.
func (r *Resolver) API(name string) (string, baseline.Status, bool) {
	return r.resolve(
		"api."+name,
		"api.Window."+name,
	)
}

// APIMember resolves an object.member reference, trying the API namespace
// first and the JS builtins second (navigator.clipboard vs Promise.any).
func (r *Resolver) APIMember(object, member string) (string, baseline.Status, bool) {
	title := object
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	return r.resolve(
		"api."+object+"."+member,
		"api."+title+"."+member,
		"javascript.builtins."+object+"."+member,
		"javascript.builtins."+title+"."+member,
	)
}

// BuiltinMethod resolves a method call on an arbitrary receiver against the
// JS builtin prototypes. The receiver's runtime type is unknown to static
// analysis, so each prototype that defines the method is a candidate; the
// dataset index decides which one exists.
func (r *Resolver) BuiltinMethod(method string) (string, baseline.Status, bool) {
	candidates := make([]string, 0, len(builtinPrototypes))
	for _, proto := range builtinPrototypes {
		candidates = append(candidates, "javascript.builtins."+proto+"."+method)
	}
	return r.resolve(candidates...)
}

// builtinPrototypes are the receivers considered for untyped method calls,
// most specific dataset coverage first.
var builtinPrototypes = []string{"Array", "String", "Object", "Promise"}

// Syntax resolves a language-construct key such as
// javascript.operators.optional_chaining.
func (r *Resolver) Syntax(key string) (string, baseline.Status, bool) {
	return r.resolve(key)
}

// Element resolves an HTML tag name. Hyphenated tags are author-defined
// custom elements.
func (r *Resolver) Element(tag string) (string, baseline.Status, bool) {
	tag = strings.ToLower(tag)
	if strings.Contains(tag, "-") {
		return r.resolve("api.CustomElementRegistry")
	}
	return r.resolve("html.elements." + tag)
}

// Attribute resolves an attribute on a tag, preferring the element-scoped
// entry over the global one. Input types use the BCD type_<value> key form.
func (r *Resolver) Attribute(tag, attr, value string) (string, baseline.Status, bool) {
	tag = strings.ToLower(tag)
	attr = strings.ToLower(attr)
	candidates := []string{
		"html.elements." + tag + "." + attr,
		"html.global_attributes." + attr,
	}
	if tag == "input" && attr == "type" && value != "" {
		candidates = append([]string{"html.elements.input.type_" + strings.ToLower(value)}, candidates...)
	}
	return r.resolve(candidates...)
}
