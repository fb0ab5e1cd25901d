package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector_Empty(t *testing.T) {
	sel, err := parseSelector("")
	require.NoError(t, err)
	assert.True(t, sel.all)
	assert.True(t, sel.matches(map[string]any{"Anything": 1}))
}

func TestParseSelector_Equality(t *testing.T) {
	sel, err := parseSelector(`StoreName = "Store A"`)
	require.NoError(t, err)

	assert.Equal(t, "StoreName", sel.column)
	assert.Equal(t, "Store A", sel.value)
	assert.True(t, sel.matches(map[string]any{"StoreName": "Store A"}))
	assert.False(t, sel.matches(map[string]any{"StoreName": "Store B"}))
	assert.False(t, sel.matches(map[string]any{"Other": "Store A"}))
}

func TestParseSelector_EscapedQuote(t *testing.T) {
	sel, err := parseSelector(`StoreName = "Store \"A\""`)
	require.NoError(t, err)
	assert.Equal(t, `Store "A"`, sel.value)
}

func TestParseSelector_NumericComparison(t *testing.T) {
	sel, err := parseSelector(`Amount = "100"`)
	require.NoError(t, err)

	// JSON numbers arrive as float64 and must still compare.
	assert.True(t, sel.matches(map[string]any{"Amount": float64(100)}))
	assert.True(t, sel.matches(map[string]any{"Amount": "100"}))
	assert.False(t, sel.matches(map[string]any{"Amount": float64(100.5)}))
}

func TestParseSelector_Invalid(t *testing.T) {
	for _, expr := range []string{"StoreName", `= "x"`, "StoreName = x", "StoreName = "} {
		_, err := parseSelector(expr)
		assert.Error(t, err, expr)
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", valueString(nil))
	assert.Equal(t, "S1", valueString("S1"))
	assert.Equal(t, "100", valueString(float64(100)))
	assert.Equal(t, "0.5", valueString(0.5))
	assert.Equal(t, "3", valueString(3))
}
