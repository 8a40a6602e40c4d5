package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/params"
)

func paramSet(kv ...any) *params.Set {
	s := params.New()
	for i := 0; i < len(kv); i += 2 {
		s.Put(kv[i].(string), kv[i+1].(cty.Value))
	}
	return s
}

func testModel() *Model {
	return &Model{
		Renderer: DefaultRenderer(),
		Defaults: paramSet("debug", cty.NumberIntVal(0), "printing", cty.NumberIntVal(1)),
		Categories: []*Category{
			{Name: "shaft", Options: []*Option{
				{Label: "5mm", Params: paramSet("gear1_shaft_diameter", cty.NumberFloatVal(5.4))},
				{Label: "4mm", Params: paramSet("gear1_shaft_diameter", cty.NumberFloatVal(4.4))},
			}},
			{Name: "hobdistance", Options: []*Option{
				{Label: "9p5", Params: paramSet("gear2_shaft_height", cty.NumberFloatVal(9.5))},
				{Label: "6", Params: paramSet("gear2_shaft_height", cty.NumberIntVal(6))},
			}},
		},
	}
}

func TestModel_ValidateAcceptsWellFormedCatalog(t *testing.T) {
	t.Parallel()

	require.NoError(t, testModel().Validate())
	require.Equal(t, 4, testModel().Combinations())
}

func TestModel_Validate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(m *Model)
		wantErr string
	}{
		{
			name:    "empty program",
			mutate:  func(m *Model) { m.Renderer.Program = "" },
			wantErr: "renderer program must not be empty",
		},
		{
			name:    "empty extension",
			mutate:  func(m *Model) { m.Renderer.Extension = "" },
			wantErr: "renderer extension must not be empty",
		},
		{
			name:    "base name with separator",
			mutate:  func(m *Model) { m.Renderer.BaseName = "a/b" },
			wantErr: `base name "a/b" must not contain path separators`,
		},
		{
			name:    "duplicate category",
			mutate:  func(m *Model) { m.Categories = append(m.Categories, m.Categories[0]) },
			wantErr: `category "shaft" is defined more than once`,
		},
		{
			name:    "empty category",
			mutate:  func(m *Model) { m.Categories[1].Options = nil },
			wantErr: `category "hobdistance" has no options`,
		},
		{
			name: "duplicate label",
			mutate: func(m *Model) {
				m.Categories[0].Options = append(m.Categories[0].Options, &Option{Label: "5mm", Params: params.New()})
			},
			wantErr: `option "5mm" is defined more than once in category "shaft"`,
		},
		{
			name:    "label with separator",
			mutate:  func(m *Model) { m.Categories[0].Options[0].Label = "../5mm" },
			wantErr: "must not contain path separators",
		},
		{
			name: "non scalar parameter",
			mutate: func(m *Model) {
				m.Categories[0].Options[0].Params.Put("bad", cty.ListValEmpty(cty.Number))
			},
			wantErr: `parameter "bad" of option "5mm" in category "shaft" must be a number, string or bool`,
		},
		{
			name:    "non scalar default",
			mutate:  func(m *Model) { m.Defaults.Put("bad", cty.NullVal(cty.String)) },
			wantErr: `default parameter "bad"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := testModel()
			tc.mutate(m)
			require.ErrorContains(t, m.Validate(), tc.wantErr)
		})
	}
}

func TestModel_ValidateReportsAllProblems(t *testing.T) {
	t.Parallel()

	m := testModel()
	m.Renderer.Program = ""
	m.Categories[1].Options = nil

	err := m.Validate()
	require.ErrorContains(t, err, "renderer program must not be empty")
	require.ErrorContains(t, err, `category "hobdistance" has no options`)
}

func TestModel_Filter(t *testing.T) {
	t.Parallel()

	m := testModel()
	filtered, err := m.Filter(map[string][]string{"shaft": {"4mm"}})
	require.NoError(t, err)

	require.Equal(t, 2, filtered.Combinations())
	shaft, ok := filtered.Category("shaft")
	require.True(t, ok)
	require.Equal(t, []string{"4mm"}, shaft.Labels())

	// The unfiltered model is not modified.
	require.Equal(t, 4, m.Combinations())
}

func TestModel_FilterKeepsCatalogOrder(t *testing.T) {
	t.Parallel()

	filtered, err := testModel().Filter(map[string][]string{"shaft": {"4mm", "5mm"}})
	require.NoError(t, err)

	shaft, _ := filtered.Category("shaft")
	require.Equal(t, []string{"5mm", "4mm"}, shaft.Labels())
}

func TestModel_FilterRejectsUnknownNames(t *testing.T) {
	t.Parallel()

	_, err := testModel().Filter(map[string][]string{"gearbox": {"x"}})
	require.ErrorContains(t, err, `unknown category "gearbox"`)

	_, err = testModel().Filter(map[string][]string{"shaft": {"3mm"}})
	require.ErrorContains(t, err, `unknown option "3mm" in category "shaft" (have 5mm, 4mm)`)
}

func TestModel_FilterWithoutRestrictions(t *testing.T) {
	t.Parallel()

	m := testModel()
	filtered, err := m.Filter(nil)
	require.NoError(t, err)
	require.Same(t, m, filtered)
}
