package eventstore

import (
	"cmp"
	"slices"
	"strings"
)

/***** Filter *****/

// Filter selects events. It is a disjunction of FilterItem(s); an empty Filter matches every event.
type Filter struct {
	items []FilterItem
}

// Items returns the alternatives of the filter.
func (f Filter) Items() []FilterItem {
	return f.items
}

// Matches reports whether an event with the given type and payload fields is selected by the filter.
// Payload fields are the top-level string values of the event's JSON payload.
// Engines that cannot push filtering down into a query language use it.
func (f Filter) Matches(eventType string, payloadFields map[string]string) bool {
	if len(f.items) == 0 {
		return true
	}

	for _, item := range f.items {
		if item.matches(eventType, payloadFields) {
			return true
		}
	}

	return false
}

// String renders the filter in a stable, human readable form for logs.
func (f Filter) String() string {
	if len(f.items) == 0 {
		return "*"
	}

	parts := make([]string, 0, len(f.items))
	for _, item := range f.items {
		parts = append(parts, item.String())
	}

	return strings.Join(parts, " OR ")
}

/***** FilterItem *****/

// FilterItem is (any of its event types) AND (any or all of its predicates).
// A missing side does not restrict.
type FilterItem struct {
	eventTypes             []string
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []string {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

func (fi FilterItem) matches(eventType string, payloadFields map[string]string) bool {
	if len(fi.eventTypes) > 0 && !slices.Contains(fi.eventTypes, eventType) {
		return false
	}

	if len(fi.predicates) == 0 {
		return true
	}

	for _, p := range fi.predicates {
		hit := payloadFields[p.key] == p.val
		if hit && !fi.allPredicatesMustMatch {
			return true
		}

		if !hit && fi.allPredicatesMustMatch {
			return false
		}
	}

	return fi.allPredicatesMustMatch
}

func (fi FilterItem) String() string {
	joiner := " | "
	if fi.allPredicatesMustMatch {
		joiner = " & "
	}

	preds := make([]string, 0, len(fi.predicates))
	for _, p := range fi.predicates {
		preds = append(preds, p.key+"="+p.val)
	}

	return "(" + strings.Join(fi.eventTypes, " | ") + ")[" + strings.Join(preds, joiner) + "]"
}

/***** FilterPredicate *****/

// FilterPredicate matches a top-level payload field against a string value.
type FilterPredicate struct {
	key string
	val string
}

// P builds a FilterPredicate.
func P(key string, val string) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() string {
	return fp.key
}

func (fp FilterPredicate) Val() string {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder only allows combinations that are meaningful for a consistency boundary:
//
//   - any event (empty filter)
//   - (eventType OR eventType...)
//   - (predicate OR predicate...) or (predicate AND predicate...)
//   - (eventTypes) AND (predicates)
//   - several of the above joined with OrMatching
type FilterBuilder interface {
	Matching() EmptyFilterItemBuilder
	MatchingAnyEvent() Filter
}

type EmptyFilterItemBuilder interface {
	AnyEventTypeOf(eventType string, eventTypes ...string) FilterItemBuilderLackingPredicates
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	AndAnyEventTypeOf(eventType string, eventTypes ...string) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

// filterBuilder is a value type, so every step returns a copy and partially built filters can be reused.
type filterBuilder struct {
	filter  Filter
	current FilterItem
}

// BuildEventFilter starts a new filter.
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.current = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return Filter{}
}

// AnyEventTypeOf drops empty event types, then sorts and de-duplicates the rest.
func (fb filterBuilder) AnyEventTypeOf(eventType string, eventTypes ...string) FilterItemBuilderLackingPredicates {
	fb.current.eventTypes = sanitizeEventTypes(append(slices.Clone(fb.current.eventTypes), append([]string{eventType}, eventTypes...)...))

	return fb
}

func (fb filterBuilder) AndAnyEventTypeOf(eventType string, eventTypes ...string) CompletedFilterItemBuilder {
	return fb.AnyEventTypeOf(eventType, eventTypes...)
}

// AnyPredicateOf drops partial predicates, then sorts and de-duplicates the rest.
func (fb filterBuilder) AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes {
	fb.current.predicates = sanitizePredicates(append(slices.Clone(fb.current.predicates), append([]FilterPredicate{predicate}, predicates...)...))

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder {
	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes {
	fb.current.allPredicatesMustMatch = true

	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder {
	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.current)
	fb.current = FilterItem{}

	return fb
}

func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.current)

	return fb.filter
}

func sanitizeEventTypes(eventTypes []string) []string {
	eventTypes = slices.DeleteFunc(eventTypes, func(e string) bool { return e == "" })
	slices.Sort(eventTypes)

	return slices.Clip(slices.Compact(eventTypes))
}

func sanitizePredicates(predicates []FilterPredicate) []FilterPredicate {
	predicates = slices.DeleteFunc(predicates, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(predicates, func(a, b FilterPredicate) int {
		return cmp.Or(cmp.Compare(a.key, b.key), cmp.Compare(a.val, b.val))
	})

	return slices.Clip(slices.Compact(predicates))
}
