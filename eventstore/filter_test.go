package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schoollibrary/circulation/eventstore"
)

func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	testCases := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, f eventstore.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
				assert.Equal(t, "*", f.String())
			},
		},
		{
			name: "event_types_only",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookReturned", "BorrowRequested").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"BookReturned", "BorrowRequested"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "event_types_and_any_predicate",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BorrowRequested").
					AndAnyPredicateOf(eventstore.P("StudentID", "s-1"), eventstore.P("BookID", "b-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				item := f.Items()[0]
				assert.False(t, item.AllPredicatesMustMatch())
				assert.Equal(t, "BookID", item.Predicates()[0].Key(), "predicates are sorted by key")
				assert.Equal(t, "StudentID", item.Predicates()[1].Key())
			},
		},
		{
			name: "all_predicates_then_event_types",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AllPredicatesOf(eventstore.P("StudentID", "s-1"), eventstore.P("BookID", "b-1")).
					AndAnyEventTypeOf("BorrowRequested").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
				assert.Equal(t, []string{"BorrowRequested"}, f.Items()[0].EventTypes())
			},
		},
		{
			name: "two_items_joined_with_or",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookAddedToCatalog").
					AndAnyPredicateOf(eventstore.P("ISBN", "978-1")).
					OrMatching().
					AnyEventTypeOf("BookArchived").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Equal(t, "(BookAddedToCatalog)[ISBN=978-1] OR (BookArchived)[]", f.String())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.validate(t, tc.build())
		})
	}
}

func Test_FilterBuilder_SanitizesInput(t *testing.T) {
	// arrange / act
	f := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("B", "", "A", "B").
		AndAnyPredicateOf(eventstore.P("k", ""), eventstore.P("", "v"), eventstore.P("k", "v"), eventstore.P("k", "v")).
		Finalize()

	// assert
	assert.Equal(t, []string{"A", "B"}, f.Items()[0].EventTypes())
	assert.Equal(t, []eventstore.FilterPredicate{eventstore.P("k", "v")}, f.Items()[0].Predicates())
}

func Test_FilterBuilder_PartialBuildersCanBeReused(t *testing.T) {
	// arrange
	base := eventstore.BuildEventFilter().Matching().AnyEventTypeOf("A")

	// act
	first := base.AndAnyPredicateOf(eventstore.P("k", "1")).Finalize()
	second := base.AndAnyPredicateOf(eventstore.P("k", "2")).Finalize()

	// assert
	assert.Equal(t, "1", first.Items()[0].Predicates()[0].Val())
	assert.Equal(t, "2", second.Items()[0].Predicates()[0].Val())
	assert.Len(t, second.Items()[0].Predicates(), 1)
}

func Test_Filter_Matches(t *testing.T) {
	anyOf := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BorrowRequested", "BookReturned").
		AndAnyPredicateOf(eventstore.P("BookID", "b-1"), eventstore.P("StudentID", "s-1")).
		Finalize()

	allOf := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BorrowRequested").
		AndAllPredicatesOf(eventstore.P("BookID", "b-1"), eventstore.P("StudentID", "s-1")).
		Finalize()

	testCases := []struct {
		name      string
		filter    eventstore.Filter
		eventType string
		fields    map[string]string
		expected  bool
	}{
		{"empty filter matches everything", eventstore.BuildEventFilter().MatchingAnyEvent(), "X", nil, true},
		{"any-of matches one predicate", anyOf, "BookReturned", map[string]string{"StudentID": "s-1"}, true},
		{"any-of rejects foreign event type", anyOf, "BookArchived", map[string]string{"BookID": "b-1"}, false},
		{"any-of rejects when no predicate hits", anyOf, "BorrowRequested", map[string]string{"BookID": "b-2"}, false},
		{"all-of needs every predicate", allOf, "BorrowRequested", map[string]string{"BookID": "b-1"}, false},
		{"all-of matches when every predicate hits", allOf, "BorrowRequested", map[string]string{"BookID": "b-1", "StudentID": "s-1"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Matches(tc.eventType, tc.fields))
		})
	}
}
