package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/regexprobe/errors"
)

// texts renders a match as full text plus group texts, with "<nil>" for
// non-participating groups so tests can tell them apart from empty captures.
func texts(input string, m *Match) []string {
	out := []string{m.Full.Text(input)}
	for _, g := range m.Groups {
		if !g.Participated() {
			out = append(out, "<nil>")
			continue
		}
		out = append(out, g.Text(input))
	}
	return out
}

func allEngines() []Engine {
	return []Engine{NewStdlib(), NewRE2(), NewRegexp2(Regexp2Options{})}
}

func TestEngines_CommonBehavior(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		groups  int
		want    []string // nil means no match
	}{
		{"optional group taken", `a(b)?c`, "abc", 1, []string{"abc", "b"}},
		{"optional group skipped", `a(b)?c`, "ac", 1, []string{"ac", "<nil>"}},
		{"no match", `a(b)?c`, "xyz", 1, nil},
		{"partial match", `\d+`, "price: 42 dollars", 0, []string{"42"}},
		{"alternation", `(a)|(b)`, "b", 2, []string{"b", "<nil>", "b"}},
		{"empty capture participates", `a()b`, "ab", 1, []string{"ab", ""}},
		{"anchored", `^abc$`, "xabc", 0, nil},
		{"leftmost", `o+`, "foo boo", 0, []string{"oo"}},
		{"repeated group keeps last", `(?:(\w),)+`, "a,b,c,", 1, []string{"a,b,c,", "c"}},
		{"empty pattern", ``, "anything", 0, []string{""}},
		{"nested", `((a)(b))`, "zab", 3, []string{"ab", "ab", "a", "b"}},
	}
	for _, eng := range allEngines() {
		for _, tc := range tests {
			t.Run(eng.Name()+"/"+tc.name, func(t *testing.T) {
				m, err := eng.Compile(tc.pattern)
				if err != nil {
					t.Fatalf("compile %q: %v", tc.pattern, err)
				}
				if m.NumGroups() != tc.groups {
					t.Errorf("NumGroups() = %d, want %d", m.NumGroups(), tc.groups)
				}
				found, err := m.Find(tc.input)
				if err != nil {
					t.Fatalf("find: %v", err)
				}
				if tc.want == nil {
					if found != nil {
						t.Fatalf("expected no match, got %v", texts(tc.input, found))
					}
					return
				}
				if found == nil {
					t.Fatal("expected a match")
				}
				if len(found.Groups) != m.NumGroups() {
					t.Errorf("len(Groups) = %d, want %d", len(found.Groups), m.NumGroups())
				}
				if diff := cmp.Diff(tc.want, texts(tc.input, found)); diff != "" {
					t.Errorf("match mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestEngines_CompileFailure(t *testing.T) {
	for _, eng := range allEngines() {
		t.Run(eng.Name(), func(t *testing.T) {
			if _, err := eng.Compile(`(foo`); err == nil {
				t.Error("expected unbalanced group to fail")
			}
		})
	}
}

func TestEngines_LinearTime(t *testing.T) {
	want := map[string]bool{NameGo: true, NameRE2: true, NameRegexp2: false}
	for _, eng := range allEngines() {
		if eng.LinearTime() != want[eng.Name()] {
			t.Errorf("%s: LinearTime() = %v", eng.Name(), eng.LinearTime())
		}
	}
}

func TestRegexp2_LookaroundOnlyOnBacktracking(t *testing.T) {
	pattern := `foo(?=bar)`
	if _, err := NewStdlib().Compile(pattern); err == nil {
		t.Error("go backend should reject lookahead")
	}
	m, err := NewRegexp2(Regexp2Options{}).Compile(pattern)
	if err != nil {
		t.Fatalf("regexp2 should accept lookahead: %v", err)
	}
	found, err := m.Find("foobaz foobar")
	if err != nil || found == nil {
		t.Fatalf("expected match, got %v, %v", found, err)
	}
	if found.Full != (Span{Start: 7, End: 10}) {
		t.Errorf("unexpected span %+v", found.Full)
	}
}

func TestRegexp2_ByteOffsetsOnMultibyteInput(t *testing.T) {
	m, err := NewRegexp2(Regexp2Options{}).Compile(`(é+)(x)`)
	if err != nil {
		t.Fatal(err)
	}
	input := "naïve ééx"
	found, err := m.Find(input)
	if err != nil || found == nil {
		t.Fatalf("expected match, got %v, %v", found, err)
	}
	if diff := cmp.Diff([]string{"ééx", "éé", "x"}, texts(input, found)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if found.Full.Start != strings.Index(input, "é") {
		t.Errorf("expected byte offset %d, got %d", strings.Index(input, "é"), found.Full.Start)
	}
}

func TestRegexp2_NamedGroupsNumberedLast(t *testing.T) {
	input := "ab"
	pattern := `(?<x>a)(b)`

	r2, err := NewRegexp2(Regexp2Options{}).Compile(pattern)
	if err != nil {
		t.Fatal(err)
	}
	found, err := r2.Find(input)
	if err != nil || found == nil {
		t.Fatalf("expected match, got %v, %v", found, err)
	}
	if diff := cmp.Diff([]string{"ab", "b", "a"}, texts(input, found)); diff != "" {
		t.Errorf("regexp2 numbering mismatch (-want +got):\n%s", diff)
	}

	std, err := NewStdlib().Compile(`(?P<x>a)(b)`)
	if err != nil {
		t.Fatal(err)
	}
	found, _ = std.Find(input)
	if diff := cmp.Diff([]string{"ab", "a", "b"}, texts(input, found)); diff != "" {
		t.Errorf("go numbering mismatch (-want +got):\n%s", diff)
	}
}

func TestRegexp2_MatchTimeout(t *testing.T) {
	eng := NewRegexp2(Regexp2Options{MatchTimeout: 20 * time.Millisecond})
	m, err := eng.Compile(`^(a+)+$`)
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.Find(strings.Repeat("a", 40) + "!")
	if err == nil {
		t.Fatal("expected catastrophic backtracking to hit the match deadline")
	}
}

func TestRegexp2_DefaultTimeout(t *testing.T) {
	if got := NewRegexp2(Regexp2Options{}).MatchTimeout(); got != DefaultMatchTimeout {
		t.Errorf("expected default timeout, got %v", got)
	}
}

func TestSpan(t *testing.T) {
	if NoSpan.Participated() {
		t.Error("NoSpan must not participate")
	}
	if NoSpan.Text("abc") != "" {
		t.Error("NoSpan text must be empty")
	}
	if got := (Span{Start: 1, End: 3}).Text("abcd"); got != "bc" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestSpansFromIndex(t *testing.T) {
	if spansFromIndex(nil) != nil {
		t.Error("nil index must mean no match")
	}
	m := spansFromIndex([]int{0, 2, -1, -1, 1, 2})
	want := &Match{Full: Span{0, 2}, Groups: []Span{NoSpan, {1, 2}}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRuneOffsets_InvalidUTF8(t *testing.T) {
	got := runeOffsets("a\xffé")
	want := []int{0, 1, 2, 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	for _, name := range []string{NameGo, NameRE2, NameRegexp2} {
		eng, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if eng.Name() != name {
			t.Errorf("expected %q, got %q", name, eng.Name())
		}
	}
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := Lookup("pcre")
	if errors.CodeOf(err) != errors.ErrCodeUnsupportedEngine {
		t.Fatalf("expected UNSUPPORTED_ENGINE, got %v", err)
	}
}

func TestRegistry_DefaultName(t *testing.T) {
	eng, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if eng.Name() != NameGo {
		t.Errorf("expected go default, got %q", eng.Name())
	}
}

func TestRegistry_Regexp2Settings(t *testing.T) {
	eng, err := New(Config{Name: NameRegexp2, MatchTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	r2, ok := eng.(*Regexp2)
	if !ok {
		t.Fatalf("expected *Regexp2, got %T", eng)
	}
	if r2.MatchTimeout() != time.Second {
		t.Errorf("expected 1s timeout, got %v", r2.MatchTimeout())
	}
}

func TestRegistry_Register(t *testing.T) {
	Register("test-only", func(Config) Engine { return NewStdlib() })
	defer func() {
		registryMu.Lock()
		delete(factories, "test-only")
		registryMu.Unlock()
	}()
	found := false
	for _, n := range Names() {
		if n == "test-only" {
			found = true
		}
	}
	if !found {
		t.Error("registered backend missing from Names()")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantCode errors.ErrorCode
	}{
		{"defaults", Config{}, ""},
		{"negative workers", Config{Name: NameGo, Workers: -1, MatchTimeout: time.Second}, errors.ErrCodeInvalidInput},
		{"unknown engine", Config{Name: "pcre"}, errors.ErrCodeUnsupportedEngine},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantCode == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if errors.CodeOf(err) != tc.wantCode {
				t.Errorf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}
