package neat

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var guidPattern = regexp.MustCompile(`^[0-9A-F]{8}-[0-9A-F]{4}-4[0-9A-F]{3}-[89AB][0-9A-F]{3}-[0-9A-F]{12}$`)

func TestNewGUID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		g := NewGUID()
		if !guidPattern.MatchString(g) {
			t.Fatalf("NewGUID() = %q, not a v4 upper-case GUID", g)
		}
		if seen[g] {
			t.Fatalf("NewGUID() repeated %q", g)
		}
		seen[g] = true
	}
}

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "#FF0000", want: "rgb(255,0,0)"},
		{in: "00FF00", want: "rgb(0,255,0)"},
		{in: "#0000ff", want: "rgb(0,0,255)"},
		{in: "#1a2B3c", want: "rgb(26,43,60)"},
		{in: "#FFF", wantErr: true},
		{in: "", wantErr: true},
		{in: "#GG0000", wantErr: true},
		{in: "##FF0000", wantErr: true},
		{in: "+F0000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := HexToRGB(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HexToRGB(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHex) {
					t.Errorf("expected ErrInvalidHex, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("HexToRGB(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestURLParameterByName(t *testing.T) {
	tests := []struct {
		name  string
		param string
		url   string
		want  string
	}{
		{name: "plus as space", param: "q", url: "http://x?q=hello+world", want: "hello world"},
		{name: "absent", param: "z", url: "http://x?q=1", want: ""},
		{name: "second param", param: "b", url: "http://x?a=1&b=2", want: "2"},
		{name: "stops at fragment", param: "a", url: "http://x?a=1#frag", want: "1"},
		{name: "percent decoded", param: "s", url: "http://x?s=caf%C3%A9%20au%20lait", want: "café au lait"},
		{name: "encoded plus kept", param: "e", url: "http://x?e=1%2B1", want: "1+1"},
		{name: "empty value", param: "a", url: "http://x?a=&b=2", want: ""},
		{name: "brackets in name", param: "ids[]", url: "http://x?ids[]=7", want: "7"},
		{name: "suffix does not match", param: "a", url: "http://x?ba=1", want: ""},
		{name: "bad escape", param: "a", url: "http://x?a=100%+off", want: "100% off"},
		{name: "no query", param: "a", url: "http://x/a=1", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URLParameterByName(tt.param, tt.url); got != tt.want {
				t.Errorf("URLParameterByName(%q, %q) = %q, want %q", tt.param, tt.url, got, tt.want)
			}
		})
	}
}

func TestIsSliceEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b []int
		want bool
	}{
		{name: "reordered", a: []int{1, 2, 3}, b: []int{3, 2, 1}, want: true},
		{name: "missing element", a: []int{1, 2}, b: []int{1, 2, 3}, want: false},
		{name: "duplicates ignored", a: []int{1, 1, 2}, b: []int{2, 1}, want: true},
		{name: "both empty", a: nil, b: []int{}, want: true},
		{name: "disjoint", a: []int{1}, b: []int{2}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSliceEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("IsSliceEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}

	if !IsSliceEqual([]string{"a", "b"}, []string{"b", "a"}) {
		t.Error("IsSliceEqual should work for strings")
	}
}

type profile struct {
	Name  string
	Tags  []string
	Prefs map[string]string
	Owner *profile
}

func TestCloneObject(t *testing.T) {
	orig := profile{
		Name:  "root",
		Tags:  []string{"a", "b"},
		Prefs: map[string]string{"theme": "dark"},
		Owner: &profile{Name: "owner"},
	}

	clone, err := CloneObject(orig)
	if err != nil {
		t.Fatalf("CloneObject() error = %v", err)
	}
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	clone.Tags[0] = "changed"
	clone.Prefs["theme"] = "light"
	clone.Owner.Name = "changed"

	if orig.Tags[0] != "a" || orig.Prefs["theme"] != "dark" || orig.Owner.Name != "owner" {
		t.Errorf("mutating the clone changed the original: %+v", orig)
	}
}

type session struct {
	ID    string
	token string
}

func TestCloneObjectUnexported(t *testing.T) {
	clone, err := CloneObject(session{ID: "s1", token: "secret"})
	if err != nil {
		t.Fatalf("CloneObject() error = %v", err)
	}
	if clone.ID != "s1" {
		t.Errorf("ID = %q, want s1", clone.ID)
	}
	if clone.token != "" {
		t.Errorf("token = %q, want zero value", clone.token)
	}
}

func TestCloneObjectMap(t *testing.T) {
	orig := map[string]interface{}{
		"nested": map[string]interface{}{"n": 1},
		"list":   []interface{}{1, "two"},
	}

	clone, err := CloneObject(orig)
	if err != nil {
		t.Fatalf("CloneObject() error = %v", err)
	}

	clone["nested"].(map[string]interface{})["n"] = 2
	if orig["nested"].(map[string]interface{})["n"] != 1 {
		t.Error("nested map was shared with the clone")
	}
}

func TestCloneSlice(t *testing.T) {
	shared := &profile{Name: "shared"}
	orig := []*profile{shared, {Name: "second"}}

	clone := CloneSlice(orig)
	if len(clone) != len(orig) {
		t.Fatalf("len = %d, want %d", len(clone), len(orig))
	}

	clone[1] = &profile{Name: "replaced"}
	if orig[1].Name != "second" {
		t.Error("replacing a clone element changed the original")
	}

	// Shallow: elements still point at the same values.
	if clone[0] != shared {
		t.Error("CloneSlice should not copy pointed-to values")
	}

	if got := CloneSlice[int](nil); got == nil || len(got) != 0 {
		t.Errorf("CloneSlice(nil) = %#v, want empty non-nil slice", got)
	}
}
