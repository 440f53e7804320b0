package playlist

import (
	"errors"
	"strings"
	"testing"
)

func TestKodiPropParse(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		key   string
		value string
	}{
		{
			name:  "License key",
			line:  "#KODIPROP:inputstream.adaptive.license_key=https://example.test/license",
			key:   "inputstream.adaptive.license_key",
			value: "https://example.test/license",
		},
		{
			name:  "Value containing equals",
			line:  "#KODIPROP:inputstream.adaptive.license_key=https://example.test/?a=1&b=2",
			key:   "inputstream.adaptive.license_key",
			value: "https://example.test/?a=1&b=2",
		},
		{
			name:  "Spaces around separator",
			line:  "#KODIPROP: inputstream.adaptive.license_type = com.widevine.alpha ",
			key:   "inputstream.adaptive.license_type",
			value: "com.widevine.alpha",
		},
		{
			name:  "Lowercase marker",
			line:  "#kodiprop:k=v",
			key:   "k",
			value: "v",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := KodiPropTag.Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.line, err)
			}
			prop, ok := tag.(*KodiProp)
			if !ok {
				t.Fatalf("Expected *KodiProp, got %T", tag)
			}
			if prop.Key != tt.key || prop.Value != tt.value {
				t.Errorf("Expected %q=%q, got %q=%q", tt.key, tt.value, prop.Key, prop.Value)
			}
			if got := prop.String(); got != "#KODIPROP:"+tt.key+"="+tt.value {
				t.Errorf("Unexpected canonical form %q", got)
			}
		})
	}
}

func TestKeyValueErrors(t *testing.T) {
	tests := []struct {
		name string
		def  TagDef
		line string
	}{
		{"KODIPROP without separator", KodiPropTag, "#KODIPROP:novalue"},
		{"KODIPROP empty key", KodiPropTag, "#KODIPROP:=value"},
		{"KODIPROP empty value", KodiPropTag, "#KODIPROP:key= "},
		{"EXTVLCOPT without separator", VLCOptTag, "#EXTVLCOPT:network-caching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := tt.def.Parse(tt.line)
			if err == nil {
				t.Fatalf("Expected error, got %v", tag)
			}
			var ferr *FormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("Expected *FormatError, got %T", err)
			}
			if ferr.Tag != tt.def.Name {
				t.Errorf("Expected tag %s, got %s", tt.def.Name, ferr.Tag)
			}
		})
	}
}

func TestExtTVParse(t *testing.T) {
	tv, err := ParseExtTV("#EXTTV:news,hd;en;bbc.one.uk;http://example.test/logo.png")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(tv.Tags, "|") != "news|hd" {
		t.Errorf("Unexpected tags %v", tv.Tags)
	}
	if tv.Language != "en" || tv.XMLTVID != "bbc.one.uk" || tv.IconURL != "http://example.test/logo.png" {
		t.Errorf("Unexpected fields %+v", tv)
	}
	if got := tv.String(); got != "#EXTTV:news,hd;en;bbc.one.uk;http://example.test/logo.png" {
		t.Errorf("Unexpected canonical form %q", got)
	}

	short, err := ParseExtTV("#EXTTV:sport;de;sport1.de")
	if err != nil {
		t.Fatal(err)
	}
	if short.IconURL != "" {
		t.Errorf("Expected no icon, got %q", short.IconURL)
	}
	if got := short.String(); got != "#EXTTV:sport;de;sport1.de" {
		t.Errorf("Unexpected canonical form %q", got)
	}

	if _, err := ParseExtTV("#EXTTV:sport;de"); err == nil {
		t.Error("Expected error for missing XMLTV id")
	}
}

func TestTextTags(t *testing.T) {
	tests := []struct {
		def   TagDef
		line  string
		value string
	}{
		{ExtGrpTag, "#EXTGRP:News", "News"},
		{ExtLogoTag, "#EXTLOGO: http://example.test/logo.png ", "http://example.test/logo.png"},
		{PlaylistTag, "#PLAYLIST:My Mix", "My Mix"},
		{ExtTitleTag, "#exttitle:Night Shift", "Night Shift"},
		{ExtAlbumArtURLTag, "#EXTALBUMARTURL:cover.jpg", "cover.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.def.Name, func(t *testing.T) {
			if !tt.def.Match(tt.line) {
				t.Fatalf("Expected %s to match %q", tt.def.Name, tt.line)
			}
			tag, err := tt.def.Parse(tt.line)
			if err != nil {
				t.Fatal(err)
			}
			text, ok := tag.(*TextTag)
			if !ok {
				t.Fatalf("Expected *TextTag, got %T", tag)
			}
			if text.Value != tt.value {
				t.Errorf("Expected value %q, got %q", tt.value, text.Value)
			}
			if text.Name() != tt.def.Name {
				t.Errorf("Expected name %s, got %s", tt.def.Name, text.Name())
			}
			if got := text.String(); got != "#"+tt.def.Name+":"+tt.value {
				t.Errorf("Unexpected canonical form %q", got)
			}
		})
	}

	if _, err := ExtGrpTag.Parse("#EXTGRP:   "); err == nil {
		t.Error("Expected error for empty value")
	}
}

func TestRegistryRegister(t *testing.T) {
	parse := func(string) (Tag, error) { return nil, nil }

	tests := []struct {
		name    string
		def     TagDef
		wantErr bool
	}{
		{"Valid", TagDef{Name: "X", Match: PrefixMatcher("#X:"), Parse: parse}, false},
		{"Missing name", TagDef{Match: PrefixMatcher("#X:"), Parse: parse}, true},
		{"Missing match", TagDef{Name: "X", Parse: parse}, true},
		{"Missing parse", TagDef{Name: "X", Match: PrefixMatcher("#X:")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			err := reg.Register(tt.def)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTag) {
					t.Errorf("Expected ErrInvalidTag, got %v", err)
				}
				if len(reg.Tags()) != 0 {
					t.Error("Expected invalid definition not to be registered")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestRegistryDefaultsAndClear(t *testing.T) {
	reg := NewRegistry()
	RegisterDefaults(reg)

	want := "EXTINF,EXTTV,EXTLOGO,EXTVLCOPT,KODIPROP,EXTGRP,PLAYLIST,EXTTITLE,EXTALBUMARTURL"
	if got := strings.Join(reg.Names(), ","); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	def, ok := reg.Match("#EXTINF:1,x")
	if !ok || def.Name != "EXTINF" {
		t.Errorf("Expected EXTINF match, got %v %v", def.Name, ok)
	}
	if _, ok := reg.Match("http://example.test/"); ok {
		t.Error("Expected no match for a media reference")
	}

	reg.Clear()
	if len(reg.Tags()) != 0 {
		t.Error("Expected empty registry after Clear")
	}
	if _, ok := reg.Match("#EXTINF:1,x"); ok {
		t.Error("Expected no match after Clear")
	}
}

func TestParserReportsNilTag(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Register(TagDef{
		Name:  "NIL",
		Match: PrefixMatcher("#NIL"),
		Parse: func(string) (Tag, error) { return nil, nil },
	})

	stream := NewParser(reg).ParseString("#NIL\nmedia\n")
	entries := collect(t, stream)
	if len(entries) != 1 || len(entries[0].Tags) != 0 {
		t.Fatalf("Expected one entry without tags, got %+v", entries)
	}
	if len(stream.Errors()) != 1 {
		t.Errorf("Expected 1 parse error, got %v", stream.Errors())
	}
}

func TestMustRegisterPanicsOnInvalidDefinition(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic for an invalid built-in definition")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "BROKEN") {
			t.Errorf("Expected panic naming the tag, got %v", r)
		}
	}()
	mustRegister(NewRegistry(), []TagDef{{Name: "BROKEN", Match: PrefixMatcher("#BROKEN:")}})
}

func TestDefaultTagsAreValid(t *testing.T) {
	for _, def := range DefaultTags() {
		if err := NewRegistry().Register(def); err != nil {
			t.Errorf("%s: %v", def.Name, err)
		}
	}
}
