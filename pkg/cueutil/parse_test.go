// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Item: {
	name!: string & !=""
	size?: int & >=0
	...
}
`

type testItem struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func TestCompileJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       string
		wantSyntax bool
		wantValid  bool
	}{
		{name: "valid object", data: `{"name": "a", "size": 2}`},
		{name: "trailing comma", data: `{"name": "a",}`, wantSyntax: true},
		{name: "not json", data: `name: "a"`, wantSyntax: true},
		{name: "truncated", data: `{"name": `, wantSyntax: true},
		{name: "conflicting duplicate keys", data: `{"name": "a", "name": "b"}`, wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compile([]byte(tt.data), WithFormat(FormatJSON), WithFilename("item.json"))
			switch {
			case tt.wantSyntax:
				if !errors.Is(err, ErrSyntax) {
					t.Fatalf("Compile() error = %v, want ErrSyntax", err)
				}
			case tt.wantValid:
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Compile() error = %v, want ErrValidation", err)
				}
			default:
				if err != nil {
					t.Fatalf("Compile() returned error: %v", err)
				}
			}
		})
	}
}

func TestCompileRejectsOversizedInput(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(`{"name": "abcdef"}`), WithFormat(FormatJSON), WithMaxFileSize(4))
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("Compile() error = %v, want ErrSyntax", err)
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error = %q, want size message", err)
	}
}

func TestDocumentHas(t *testing.T) {
	t.Parallel()

	doc, err := Compile([]byte(`{"name": "a", "nested": {"x": 1}}`), WithFormat(FormatJSON))
	if err != nil {
		t.Fatalf("Compile() returned error: %v", err)
	}

	for path, want := range map[string]bool{
		"name":     true,
		"nested.x": true,
		"nested.y": false,
		"size":     false,
	} {
		if got := doc.Has(path); got != want {
			t.Errorf("Has(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		doc, err := Compile([]byte(`{"name": "a", "size": 3, "extra": true}`), WithFormat(FormatJSON))
		if err != nil {
			t.Fatalf("Compile() returned error: %v", err)
		}
		item, err := Decode[testItem](doc, []byte(testSchema), "#Item")
		if err != nil {
			t.Fatalf("Decode() returned error: %v", err)
		}
		if item.Name != "a" || item.Size != 3 {
			t.Errorf("Decode() = %+v, want {a 3}", item)
		}
	})

	t.Run("constraint violation reports path", func(t *testing.T) {
		t.Parallel()

		doc, err := Compile([]byte(`{"name": "a", "size": -1}`), WithFormat(FormatJSON), WithFilename("item.json"))
		if err != nil {
			t.Fatalf("Compile() returned error: %v", err)
		}
		_, err = Decode[testItem](doc, []byte(testSchema), "#Item")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Decode() error = %v, want *ValidationError", err)
		}
		if vErr.CUEPath != "size" {
			t.Errorf("CUEPath = %q, want %q", vErr.CUEPath, "size")
		}
		if strings.Contains(vErr.Message, "#Item") {
			t.Errorf("Message = %q, want no definition selector", vErr.Message)
		}
		if !strings.HasPrefix(vErr.Error(), "item.json: ") {
			t.Errorf("Error() = %q, want filename prefix", vErr.Error())
		}
	})

	t.Run("missing definition", func(t *testing.T) {
		t.Parallel()

		doc, err := Compile([]byte(`{"name": "a"}`), WithFormat(FormatJSON))
		if err != nil {
			t.Fatalf("Compile() returned error: %v", err)
		}
		if _, err := Decode[testItem](doc, []byte(testSchema), "#Missing"); err == nil {
			t.Error("Decode() with unknown definition returned nil error")
		}
	})
}

func TestDecodeMapCUESource(t *testing.T) {
	t.Parallel()

	doc, err := Compile([]byte("name: \"cfg\"\nsize: 1\n"), WithConcrete(false), WithFilename("config.cue"))
	if err != nil {
		t.Fatalf("Compile() returned error: %v", err)
	}
	m, err := DecodeMap(doc, []byte(testSchema), "#Item")
	if err != nil {
		t.Fatalf("DecodeMap() returned error: %v", err)
	}
	if m["name"] != "cfg" {
		t.Errorf("DecodeMap()[name] = %v, want cfg", m["name"])
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if err := FormatError(nil, "x.cue"); err != nil {
		t.Errorf("FormatError(nil) = %v, want nil", err)
	}

	err := FormatError(errors.New("some error"), "x.cue")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("FormatError() = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "x.cue") || !strings.Contains(err.Error(), "some error") {
		t.Errorf("FormatError() = %q, want filename and cause", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{path: nil, want: ""},
		{path: []string{"name"}, want: "name"},
		{path: []string{"build", "runtimes", "x64"}, want: "build.runtimes.x64"},
		{path: []string{"items", "0", "name"}, want: "items[0].name"},
		{path: []string{"0"}, want: "0"},
		{path: []string{"#Luxmod", "name"}, want: "name"},
		{path: []string{"#Luxmod", "build", "runtimes", "x64"}, want: "build.runtimes.x64"},
		{path: []string{"#Config"}, want: ""},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 8), 8); err != nil {
		t.Errorf("CheckFileSize(8, 8) = %v, want nil", err)
	}
	if err := CheckFileSize(make([]byte, 9), 8); err == nil {
		t.Error("CheckFileSize(9, 8) = nil, want error")
	}
}
