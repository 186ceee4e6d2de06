package modversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   string
	}{
		{
			name:   "double quoted",
			script: "local modVersion = \"1.2.3\"\nreturn {}\n",
			want:   "1.2.3",
		},
		{
			name:   "single quoted",
			script: "local modVersion = '0.9.0-beta'",
			want:   "0.9.0-beta",
		},
		{
			name:   "no whitespace around equals",
			script: `local modVersion="2.0"`,
			want:   "2.0",
		},
		{
			name:   "declaration after other code",
			script: "local re = re\nlocal sdk = sdk\n\nlocal modVersion   =   \"v3\"\n",
			want:   "v3",
		},
		{
			name:   "first declaration wins",
			script: "local modVersion = \"1.0\"\nlocal modVersion = \"2.0\"\n",
			want:   "1.0",
		},
		{
			name:   "missing declaration",
			script: "print('hello')\n",
			want:   Unknown,
		},
		{
			name:   "global assignment is not a declaration",
			script: `modVersion = "1.0"`,
			want:   Unknown,
		},
		{
			name:   "empty version string",
			script: `local modVersion = ""`,
			want:   Unknown,
		},
		{
			name:   "empty script",
			script: "",
			want:   Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Extract(tt.script))
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	v, ok := Lookup(`local modVersion = "1.2.3"`)
	assert.True(t, ok)
	assert.Equal(t, "1.2.3", v)

	v, ok = Lookup("-- no version here")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestFileSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in          string
		want        string
		wantChanged bool
	}{
		{"1.2.3", "1.2.3", false},
		{"v2.0-rc.1+build", "v2.0-rc.1+build", false},
		{"1.0/beta", "1.0_beta", true},
		{`1.0\beta`, "1.0_beta", true},
		{`a:b*c?d"e<f>g|h`, "a_b_c_d_e_f_g_h", true},
		{"1.0\tfinal", "1.0_final", true},
		{"版本1", "版本1", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, changed := FileSafe(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}
