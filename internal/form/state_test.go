package form

import (
	"encoding/json"
	"slices"
	"sync"
	"testing"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()

	s, err := NewSchema(
		TextField("brandName", "Brand Name", "Your brand", "Acme"),
		EnumField("tone", "Tone", "professional", Catalog("professional", "friendly", "playful")),
		FlagField("includeAnalytics", "Include analytics", "Analytics", true),
		MultiField("channels", "Channels", []string{"email"}, Catalog("email", "sms", "push")),
		ListField("keywords", "Keywords", nil, "growth"),
	)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return s
}

/***************
 * Schema
 ***************/

func TestNewSchema_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"empty name", []Field{TextField("", "x", "", "")}},
		{"duplicate", []Field{TextField("a", "A", "", ""), TextField("a", "A", "", "")}},
		{"enum default outside catalog", []Field{EnumField("tone", "Tone", "loud", Catalog("quiet"))}},
		{"enum without options", []Field{EnumField("tone", "Tone", "", nil)}},
		{"multi default outside catalog", []Field{MultiField("c", "C", []string{"fax"}, Catalog("email"))}},
		{"bool default wrong type", []Field{{Name: "b", Kind: Bool, Default: "yes"}}},
		{"unknown kind", []Field{{Name: "x", Default: ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchema(tt.fields...); err == nil {
				t.Error("NewSchema() expected error")
			}
		})
	}
}

func TestSchema_Defaults(t *testing.T) {
	st := testSchema(t).Defaults()

	if got := st.Text("brandName"); got != "Acme" {
		t.Errorf("brandName = %q, want Acme", got)
	}
	if got := st.Text("tone"); got != "professional" {
		t.Errorf("tone = %q, want professional", got)
	}
	if !st.Flag("includeAnalytics") {
		t.Error("includeAnalytics = false, want true")
	}
	if got := st.List("channels"); !slices.Equal(got, []string{"email"}) {
		t.Errorf("channels = %v, want [email]", got)
	}
	if got := st.List("keywords"); len(got) != 0 {
		t.Errorf("keywords = %v, want empty", got)
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"real-estate": "Real Estate",
		"e_commerce":  "E Commerce",
		"newsletter":  "Newsletter",
		"":            "",
	}
	for in, want := range tests {
		if got := Humanize(in); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHumanize_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got := Humanize("real-estate"); got != "Real Estate" {
					t.Errorf("Humanize() = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

/***************
 * State
 ***************/

func TestState_Set(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		wantErr bool
		check   func(t *testing.T, st *State)
	}{
		{
			name: "text", field: "brandName", value: "Globex",
			check: func(t *testing.T, st *State) {
				if st.Text("brandName") != "Globex" {
					t.Errorf("brandName = %q", st.Text("brandName"))
				}
			},
		},
		{name: "text wrong type", field: "brandName", value: 42, wantErr: true},
		{
			name: "enum in catalog", field: "tone", value: "playful",
			check: func(t *testing.T, st *State) {
				if st.Text("tone") != "playful" {
					t.Errorf("tone = %q", st.Text("tone"))
				}
			},
		},
		{name: "enum outside catalog", field: "tone", value: "angry", wantErr: true},
		{
			name: "bool from string", field: "includeAnalytics", value: "false",
			check: func(t *testing.T, st *State) {
				if st.Flag("includeAnalytics") {
					t.Error("includeAnalytics = true")
				}
			},
		},
		{name: "bool garbage", field: "includeAnalytics", value: "maybe", wantErr: true},
		{
			name: "multi drops duplicates", field: "channels", value: []any{"sms", "email", "sms"},
			check: func(t *testing.T, st *State) {
				if got := st.List("channels"); !slices.Equal(got, []string{"sms", "email"}) {
					t.Errorf("channels = %v", got)
				}
			},
		},
		{
			name: "multi from comma list", field: "channels", value: "push, sms",
			check: func(t *testing.T, st *State) {
				if got := st.List("channels"); !slices.Equal(got, []string{"push", "sms"}) {
					t.Errorf("channels = %v", got)
				}
			},
		},
		{name: "multi outside catalog", field: "channels", value: []string{"fax"}, wantErr: true},
		{
			name: "custom list accepts free values", field: "keywords", value: []string{"saas", "b2b"},
			check: func(t *testing.T, st *State) {
				if got := st.List("keywords"); !slices.Equal(got, []string{"saas", "b2b"}) {
					t.Errorf("keywords = %v", got)
				}
			},
		},
		{name: "unknown field", field: "nope", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testSchema(t).Defaults()
			err := st.Set(tt.field, tt.value)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Set() expected error")
				}
				if !errx.Is(err, errx.Invalid) {
					t.Errorf("kind = %v, want Invalid", errx.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			tt.check(t, st)
		})
	}
}

func TestState_ApplyIsAtomic(t *testing.T) {
	st := testSchema(t).Defaults()

	err := st.Apply(map[string]any{
		"brandName": "Globex",
		"tone":      "shouty",
	})
	if err == nil {
		t.Fatal("Apply() expected error")
	}
	if got := st.Text("brandName"); got != "Acme" {
		t.Errorf("brandName = %q after failed Apply, want Acme", got)
	}
}

func TestState_ToggleTwiceRestores(t *testing.T) {
	tests := []struct {
		name   string
		option string
	}{
		{"present option", "email"},
		{"absent option", "push"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := testSchema(t).Defaults()
			before := st.List("channels")

			if err := st.Toggle("channels", tt.option); err != nil {
				t.Fatalf("Toggle() error = %v", err)
			}
			if slices.Equal(st.List("channels"), before) {
				t.Fatal("first Toggle() did not change the list")
			}
			if err := st.Toggle("channels", tt.option); err != nil {
				t.Fatalf("Toggle() error = %v", err)
			}
			if got := st.List("channels"); !slices.Equal(got, before) {
				t.Errorf("channels = %v, want %v", got, before)
			}
		})
	}
}

func TestState_ToggleRejects(t *testing.T) {
	st := testSchema(t).Defaults()

	if err := st.Toggle("channels", "fax"); !errx.Is(err, errx.Invalid) {
		t.Errorf("Toggle(outside catalog) = %v, want Invalid", err)
	}
	if err := st.Toggle("brandName", "x"); !errx.Is(err, errx.Invalid) {
		t.Errorf("Toggle(text field) = %v, want Invalid", err)
	}
}

func TestState_AddRemove(t *testing.T) {
	st := testSchema(t).Defaults()

	for _, kw := range []string{"saas", " saas ", "", "b2b"} {
		if err := st.Add("keywords", kw); err != nil {
			t.Fatalf("Add(%q) error = %v", kw, err)
		}
	}
	if got := st.List("keywords"); !slices.Equal(got, []string{"saas", "b2b"}) {
		t.Fatalf("keywords = %v, want [saas b2b]", got)
	}

	if err := st.Remove("keywords", "saas"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := st.Remove("keywords", "missing"); err != nil {
		t.Fatalf("Remove(missing) error = %v", err)
	}
	if got := st.List("keywords"); !slices.Equal(got, []string{"b2b"}) {
		t.Errorf("keywords = %v, want [b2b]", got)
	}
}

func TestState_CloneIsIndependent(t *testing.T) {
	st := testSchema(t).Defaults()
	c := st.Clone()

	if err := c.Toggle("channels", "sms"); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("brandName", "Other"); err != nil {
		t.Fatal(err)
	}

	if st.Contains("channels", "sms") {
		t.Error("original saw toggle on clone")
	}
	if st.Text("brandName") != "Acme" {
		t.Error("original saw text change on clone")
	}
}

func TestState_MarshalJSON(t *testing.T) {
	st := testSchema(t).Defaults()

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got["brandName"] != "Acme" {
		t.Errorf("brandName = %v", got["brandName"])
	}
	if got["includeAnalytics"] != true {
		t.Errorf("includeAnalytics = %v", got["includeAnalytics"])
	}
	if kws, ok := got["keywords"].([]any); !ok || len(kws) != 0 {
		t.Errorf("keywords = %#v, want empty array", got["keywords"])
	}
}
