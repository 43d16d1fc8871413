package canvas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProperties(t *testing.T) {
	tests := []struct {
		name  string
		typ   ComponentType
		props Properties
		bad   []string
	}{
		{"empty", TypeButton, nil, nil},
		{"valid common", TypeButton, Properties{"color": "#fff", "fontSize": 14}, nil},
		{"wrong common kind", TypeButton, Properties{"fontSize": "14px"}, []string{"fontSize"}},
		{"unknown keys pass", TypeButton, Properties{"anything": []int{1}}, nil},
		{"typed bool", TypeCheckbox, Properties{"checked": "yes"}, []string{"checked"}},
		{"typed key on other type", TypeButton, Properties{"checked": "yes"}, nil},
		{"decoded string list", TypeSelect, Properties{"options": []any{"a", "b"}}, nil},
		{"mixed list", TypeSelect, Properties{"options": []any{"a", 2}}, []string{"options"}},
		{"nan number", TypeTable, Properties{"rows": math.NaN()}, []string{"rows"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, err := range ValidateProperties(tt.typ, tt.props) {
				got = append(got, err.Key)
			}
			assert.ElementsMatch(t, tt.bad, got)
		})
	}
}

func TestPropertyError(t *testing.T) {
	errs := ValidateProperties(TypeHeading, Properties{"level": "h1"})
	require.Len(t, errs, 1)
	assert.Equal(t, `property "level": want number, got string`, errs[0].Error())
}

func TestProperties_Accessors(t *testing.T) {
	p := Properties{
		"label":   "Name",
		"rows":    3,
		"checked": true,
		"options": []any{"a", "b"},
		"headers": []string{"x"},
	}
	assert.Equal(t, "Name", p.Text("label"))
	assert.Equal(t, "", p.Text("rows"))

	n, ok := p.Number("rows")
	assert.True(t, ok)
	assert.Equal(t, 3.0, n)
	_, ok = p.Number("label")
	assert.False(t, ok)

	assert.True(t, p.Bool("checked"))
	assert.False(t, p.Bool("missing"))
	assert.Equal(t, []string{"a", "b"}, p.Strings("options"))
	assert.Equal(t, []string{"x"}, p.Strings("headers"))

	var empty Properties
	assert.Equal(t, "", empty.Text("x"))
	assert.Nil(t, empty.Clone())
}

func TestProperties_MergeLeavesInputsAlone(t *testing.T) {
	base := Properties{"a": 1, "b": 2}
	patch := Properties{"b": 3, "c": 4}
	merged := base.Merge(patch)

	assert.Equal(t, Properties{"a": 1, "b": 3, "c": 4}, merged)
	assert.Equal(t, Properties{"a": 1, "b": 2}, base)
	assert.Equal(t, Properties{"b": 3, "c": 4}, patch)
}

func TestProperties_CloneIsDeep(t *testing.T) {
	p := Properties{
		"options": []any{"a", []any{"b"}},
		"headers": []string{"x"},
		"style":   map[string]any{"color": "red"},
	}
	c := p.Clone()

	p["options"].([]any)[1].([]any)[0] = "changed"
	p["headers"].([]string)[0] = "changed"
	p["style"].(map[string]any)["color"] = "blue"

	assert.Equal(t, []any{"a", []any{"b"}}, c["options"])
	assert.Equal(t, []string{"x"}, c["headers"])
	assert.Equal(t, map[string]any{"color": "red"}, c["style"])
	assert.Nil(t, Properties(nil).Clone())
}

func TestComponentType(t *testing.T) {
	assert.True(t, TypeFlowShape.Valid())
	assert.False(t, ComponentType("carousel").Valid())
	assert.True(t, TypeButton.TextBearing())
	assert.False(t, TypeImage.TextBearing())
	assert.Len(t, ComponentTypes(), 13)
}
