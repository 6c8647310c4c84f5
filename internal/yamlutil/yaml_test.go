package yamlutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdmath/internal/yamlutil"
)

type sample struct {
	Engine string   `yaml:"engine"`
	Models []string `yaml:"models"`
	Watch  int      `yaml:"watch"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		strict  bool
		wantErr error
		anyErr  bool
		want    sample
	}{
		{
			name: "valid",
			data: []byte("engine: katex\nmodels: [a, b]\nwatch: 5"),
			dest: &sample{},
			want: sample{Engine: "katex", Models: []string{"a", "b"}, Watch: 5},
		},
		{
			name: "unknown key tolerated",
			data: []byte("engine: mathml\nextra: 1"),
			dest: &sample{},
			want: sample{Engine: "mathml"},
		},
		{
			name:   "unknown key rejected when strict",
			data:   []byte("engine: mathml\nextra: 1"),
			dest:   &sample{},
			strict: true,
			anyErr: true,
		},
		{
			name:    "nil data",
			dest:    &sample{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("engine: x"),
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "too large",
			data:    []byte("engine: " + strings.Repeat("x", yamlutil.MaxInputSize)),
			dest:    &sample{},
			wantErr: yamlutil.ErrInputTooLarge,
		},
		{
			name:   "wrong type",
			data:   []byte("watch: many"),
			dest:   &sample{},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err error
			if tt.strict {
				err = yamlutil.UnmarshalStrict(tt.data, tt.dest)
			} else {
				err = yamlutil.Unmarshal(tt.data, tt.dest)
			}

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			case tt.anyErr:
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}

			got := *tt.dest.(*sample)
			if got.Engine != tt.want.Engine || got.Watch != tt.want.Watch || len(got.Models) != len(tt.want.Models) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	in := sample{Engine: "none", Models: []string{"gemini-2.5-flash"}}
	data, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "gemini-2.5-flash") {
		t.Errorf("Marshal() = %q, want model listed", data)
	}

	var out sample
	if err := yamlutil.UnmarshalStrict(data, &out); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if out.Engine != "none" || len(out.Models) != 1 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestReadFileStrict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(path, []byte("engine: katex\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var s sample
	if err := yamlutil.ReadFileStrict(path, &s); err != nil {
		t.Fatalf("ReadFileStrict() error = %v", err)
	}
	if s.Engine != "katex" {
		t.Errorf("Engine = %q, want katex", s.Engine)
	}

	if err := yamlutil.ReadFileStrict(filepath.Join(dir, "missing.yaml"), &s); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
