package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/restaurant-api/pkg/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Café Central":         "cafe-central",
		"Ñandú Grill":          "nandu-grill",
		"  Sucursal Nº 2  ":    "sucursal-n-2",
		"La Parrilla -- Norte": "la-parrilla-norte",
		"---":                  "",
		"MAYÚSCULAS123":        "mayusculas123",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), "entrada %q", in)
	}
}

func TestMake_RespetaLongitudMaxima(t *testing.T) {
	out := slug.Make(strings.Repeat("ab ", 40))
	assert.LessOrEqual(t, len(out), slug.MaxLength)
	assert.False(t, strings.HasSuffix(out, "-"))
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"centro": true, "centro-2": true}
	got := slug.Unique("centro", func(s string) bool { return taken[s] })
	assert.Equal(t, "centro-3", got)
	assert.Equal(t, "norte", slug.Unique("norte", func(s string) bool { return taken[s] }))
}
