package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-lanka-watch/internal/entity"
	"golang-lanka-watch/pkg/logger"
)

func newClassifier(t *testing.T) Classifier {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return NewKeywordClassifier(log)
}

func TestClassifyEmptyTextFallsBack(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify(context.Background(), "   ")
	assert.Equal(t, entity.DefaultClassification(), got)
}

func TestClassifyUnmatchedTextUsesDefaults(t *testing.T) {
	c := newClassifier(t)

	// No category keyword hits: the place name in the text must not leak
	// into the default result.
	got := c.Classify(context.Background(), "Nothing notable in Kandy today")
	assert.Equal(t, entity.DefaultClassification(), got)
	assert.Equal(t, "Sri Lanka", got.Location)
}

func TestClassifyCategories(t *testing.T) {
	c := newClassifier(t)
	ctx := context.Background()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"traffic", "Bus accident blocks the main road", "traffic"},
		{"weather", "Heavy rain and flood threat in the south", "weather"},
		{"crime", "Police arrest suspect after robbery", "crime"},
		{"health", "Dengue cases rise, hospital wards full", "health"},
		{"community", "Music festival and concert this weekend", "community"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(ctx, tc.text)
			assert.Equal(t, tc.want, got.Category)
		})
	}
}

func TestClassifyTieGoesToEarlierCategory(t *testing.T) {
	c := newClassifier(t)

	// One traffic hit and one weather hit; traffic is defined first.
	got := c.Classify(context.Background(), "road and rain")
	assert.Equal(t, "traffic", got.Category)
}

func TestClassifySeverityTiers(t *testing.T) {
	c := newClassifier(t)
	ctx := context.Background()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"two high hits", "Emergency declared, two dead after fire", entity.SeverityHigh},
		{"one high two medium", "Flood warning issued after landslide", entity.SeverityHigh},
		{"single high hit", "Severe congestion on the highway", entity.SeverityMedium},
		{"two medium hits", "Several injured in bus accident", entity.SeverityMedium},
		{"single medium hit", "Road closure announced for repairs", entity.SeverityLow},
		{"low hits only", "Routine road maintenance update planned", entity.SeverityLow},
		{"no severity hits", "New highway opens", entity.SeverityInfo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(ctx, tc.text)
			assert.Equal(t, tc.want, got.Severity, "text %q", tc.text)
		})
	}
}

func TestClassifyConfidenceSaturates(t *testing.T) {
	c := newClassifier(t)
	ctx := context.Background()

	got := c.Classify(ctx, "Bus accident on highway road causes traffic delay")
	assert.Equal(t, "traffic", got.Category)
	assert.Equal(t, 1.0, got.Confidence)

	got = c.Classify(ctx, "road works ahead")
	assert.Equal(t, 0.2, got.Confidence)
}

func TestClassifySubcategories(t *testing.T) {
	c := newClassifier(t)
	ctx := context.Background()

	got := c.Classify(ctx, "Heavy traffic jam in Colombo")
	assert.Equal(t, "traffic", got.Category)
	assert.Equal(t, "traffic_jams", got.Subcategory)

	// Categories without a pattern table fall back to <category>_general.
	got = c.Classify(ctx, "Minister announces new tax policy")
	assert.Equal(t, "government", got.Category)
	assert.Equal(t, "government_general", got.Subcategory)

	got = c.Classify(ctx, "Routine road maintenance update planned")
	assert.Equal(t, "traffic_general", got.Subcategory)
}

func TestClassifyImpactText(t *testing.T) {
	c := newClassifier(t)
	ctx := context.Background()

	got := c.Classify(ctx, "Emergency declared, two dead after fire")
	assert.Equal(t, "safety", got.Category)
	assert.Equal(t, impactTemplates["safety"][entity.SeverityHigh], got.Impact)

	// Categories without their own templates use the generic set.
	got = c.Classify(ctx, "Music festival and concert this weekend")
	assert.Equal(t, genericImpacts[entity.SeverityInfo], got.Impact)
}

func TestExtractLocation(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"gazetteer direct", "Flooding in Kandy", "Kandy"},
		{"province beats city", "Western Province roads and Colombo", "Western Province"},
		{"pattern cross-checked", "Protest near Nuwara", "Nuwara Eliya"},
		{"unknown place", "Protest near Springfield", "Sri Lanka"},
		{"no location", "general announcement", "Sri Lanka"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractLocation(tc.text))
		})
	}
}

func TestCategoryNamesOrder(t *testing.T) {
	names := CategoryNames()
	require.Len(t, names, 10)
	assert.Equal(t, "traffic", names[0])
	assert.Equal(t, "community", names[9])
}
