package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/catalog"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/config"
)

func TestParse_PreservesSourceOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
renderer {
  output_dir = "out"
}

defaults {
  printing = 1
  debug    = 0
}

category "ratio" {
  option "11to45" {
    gear2_teeth = 45
    gear1_teeth = 11
  }
  option "9to47" {
    gear2_teeth = 47
    gear1_teeth = 9
  }
}

category "shaft" {
  option "5mm" {
    gear1_shaft_diameter = 5 + 0.4
  }
}
`
	// --- Act ---
	model, err := NewLoader().Parse(context.Background(), "test.hcl", []byte(src))

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"printing", "debug"}, model.Defaults.Keys())
	require.Len(t, model.Categories, 2)
	require.Equal(t, "ratio", model.Categories[0].Name)
	require.Equal(t, "shaft", model.Categories[1].Name)
	require.Equal(t, []string{"11to45", "9to47"}, model.Categories[0].Labels())
	require.Equal(t, []string{"gear2_teeth", "gear1_teeth"}, model.Categories[0].Options[0].Params.Keys())

	d, ok := model.Categories[1].Options[0].Params.Get("gear1_shaft_diameter")
	require.True(t, ok)
	f, _ := d.AsBigFloat().Float64()
	require.InDelta(t, 5.4, f, 1e-12)
}

func TestParse_RendererDefaults(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().Parse(context.Background(), "test.hcl", []byte(`
renderer {
  program           = "/opt/openscad/bin/openscad"
  create_output_dir = true
}
`))
	require.NoError(t, err)

	want := config.DefaultRenderer()
	want.Program = "/opt/openscad/bin/openscad"
	want.CreateOutputDir = true
	require.Equal(t, want, model.Renderer)
	require.Equal(t, 0, model.Defaults.Len())
	require.Empty(t, model.Categories)
}

func TestParse_ExplicitEmptyBaseName(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().Parse(context.Background(), "test.hcl", []byte(`
renderer {
  base_name = ""
}
`))
	require.NoError(t, err)
	require.Equal(t, "", model.Renderer.BaseName)
}

func TestParse_ScalarTypes(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().Parse(context.Background(), "test.hcl", []byte(`
defaults {
  flag  = true
  name  = "solid"
  count = 5
}
`))
	require.NoError(t, err)

	flag, _ := model.Defaults.Get("flag")
	require.True(t, flag.RawEquals(cty.True))
	name, _ := model.Defaults.Get("name")
	require.True(t, name.RawEquals(cty.StringVal("solid")))
	count, _ := model.Defaults.Get("count")
	require.Equal(t, cty.Number, count.Type())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     "category \"shaft\" {\n  option \"5mm\" {\n",
			wantErr: "failed to parse HCL file bad.hcl",
		},
		{
			name:    "unknown block",
			src:     "gearbox {}\n",
			wantErr: "failed to decode HCL file bad.hcl",
		},
		{
			name:    "list parameter",
			src:     "category \"shaft\" {\n  option \"5mm\" {\n    d = [1, 2]\n  }\n}\n",
			wantErr: "Unsupported parameter value",
		},
		{
			name:    "null parameter",
			src:     "defaults {\n  d = null\n}\n",
			wantErr: `Parameter "d" must be a number, string or bool`,
		},
		{
			name:    "variable reference",
			src:     "defaults {\n  d = var.shaft\n}\n",
			wantErr: "Variables not allowed",
		},
		{
			name:    "nested block in option",
			src:     "category \"shaft\" {\n  option \"5mm\" {\n    inner {}\n  }\n}\n",
			wantErr: "in category 'shaft', option '5mm'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLoader().Parse(context.Background(), "bad.hcl", []byte(tc.src))
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "catalog.hcl")
	err := os.WriteFile(path, []byte("category \"shaft\" {\n  option \"5mm\" {\n    d = 5.4\n  }\n}\n"), 0600)
	require.NoError(t, err, "failed to set up test file")

	// --- Act ---
	model, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, 1, model.Combinations())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.ErrorContains(t, err, "failed to read catalog")
}

func TestParse_EmbeddedCatalog(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().Parse(context.Background(), catalog.Filename, catalog.Default)
	require.NoError(t, err)
	require.NoError(t, model.Validate())

	names := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"shaft", "distance", "ratio", "decoration", "hobdistance"}, names)
	require.Equal(t, 2*2*2*12*2, model.Combinations())
	require.Equal(t, config.DefaultRenderer(), model.Renderer)

	defs, err := model.Defaults.Definitions()
	require.NoError(t, err)
	require.Equal(t, []string{"debug=0", "printing=1"}, defs)

	decoration, _ := model.Category("decoration")
	spokes, ok := decoration.Option("spokes")
	require.True(t, ok)
	defs, err = spokes.Params.Definitions()
	require.NoError(t, err)
	require.Equal(t, []string{"gear2_decoration_spokes=5", "gear2_decoration_extra_margin=1"}, defs)
}
