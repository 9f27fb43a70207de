package deplist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMulti(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string][]string
	}{
		{
			name:  "self reference excluded",
			input: "package: foo-1.0-1.x86_64\n  provider: bar-2.0-1.x86_64\n  provider: foo-1.0-1.x86_64\n",
			want:  map[string][]string{"foo": {"bar"}},
		},
		{
			name: "two independent blocks",
			input: `package: vim-enhanced-2:9.1.031-1.fc40.x86_64
  dependency: libc.so.6()(64bit)
   provider: glibc-2.39-6.fc40.x86_64
  dependency: libgpm.so.2()(64bit)
   provider: gpm-libs-1.20.7-46.fc40.x86_64
package: htop-3.3.0-3.fc40.x86_64
  dependency: libncursesw.so.6()(64bit)
   provider: ncurses-libs-6.4-12.20240127.fc40.x86_64
   provider: glibc-2.39-6.fc40.x86_64
`,
			want: map[string][]string{
				"vim-enhanced": {"glibc", "gpm-libs"},
				"htop":         {"glibc", "ncurses-libs"},
			},
		},
		{
			name:  "header without providers",
			input: "package: filesystem-3.18-8.fc40.x86_64\n  dependency: setup\n",
			want:  map[string][]string{"filesystem": {}},
		},
		{
			name:  "provider before header dropped",
			input: "  provider: orphan-1.0-1.noarch\npackage: foo-1.0-1.noarch\n",
			want:  map[string][]string{"foo": {}},
		},
		{
			name:  "duplicates collapse and sort",
			input: "package: a-1-1.noarch\n  provider: zlib-1.3-1.x86_64\n  provider: bash-5.2-1.x86_64\n  provider: zlib-1.3-1.x86_64\n",
			want:  map[string][]string{"a": {"bash", "zlib"}},
		},
		{
			name:  "noise and unknown lines ignored",
			input: "Last metadata expiration check: 0:01:02 ago\nrandom text\npackage: a-1-1.noarch\n",
			want:  map[string][]string{"a": {}},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMulti(tt.input))
		})
	}
}

func TestParseSingle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		owner string
		want  []string
	}{
		{
			name:  "requires resolve output",
			input: "glibc-0:2.39-6.fc40.x86_64\nncurses-libs-0:6.4-12.fc40.x86_64\nglibc-0:2.39-6.fc40.i686\n",
			owner: "htop",
			want:  []string{"glibc", "ncurses-libs"},
		},
		{
			name:  "owner excluded",
			input: "htop-3.3.0-3.fc40.x86_64\nglibc-2.39-6.fc40.x86_64\n",
			owner: "htop",
			want:  []string{"glibc"},
		},
		{
			name:  "none marker",
			input: "(none)\n",
			owner: "htop",
			want:  []string{},
		},
		{
			name:  "none marker case insensitive",
			input: "Last metadata expiration check: 0:10:00 ago on Mon.\nNONE\n",
			owner: "htop",
			want:  []string{},
		},
		{
			name:  "noise and blanks skipped",
			input: "Updating and loading repositories:\nRepositories loaded.\n\n   \n/usr/bin/sh\nrpmlib(CompressedFileNames)\n",
			owner: "x",
			want:  []string{"rpmlib", "sh"},
		},
		{
			name:  "empty",
			input: "",
			owner: "x",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSingle(tt.input, tt.owner))
		})
	}
}

func TestIsNoise(t *testing.T) {
	assert.True(t, IsNoise("Last metadata expiration check: 1:02:03 ago on Tue 01 Oct 2024."))
	assert.True(t, IsNoise("  Updating and loading repositories:"))
	assert.False(t, IsNoise("glibc-2.39-6.fc40.x86_64"))
	assert.True(t, IsNoneMarker(" (None) "))
	assert.False(t, IsNoneMarker("none-such-package"))
}
