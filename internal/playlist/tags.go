package playlist

import (
	"fmt"
	"strings"
)

// KeyValue is the payload of property directives such as
// #KODIPROP:inputstream.adaptive.license_type=com.widevine.alpha. The line
// is split on its first '=', so values may contain '=' themselves.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func parseKeyValue(tag, marker, line string) (KeyValue, error) {
	if !hasPrefixFold(line, marker) {
		return KeyValue{}, formatErrorf(tag, line, "missing %s marker", marker)
	}
	payload := strings.TrimSpace(line[len(marker):])
	key, value, ok := strings.Cut(payload, "=")
	if !ok {
		return KeyValue{}, formatErrorf(tag, line, "expected <key>=<value>")
	}
	kv := KeyValue{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}
	if kv.Key == "" {
		return KeyValue{}, formatErrorf(tag, line, "empty key")
	}
	if kv.Value == "" {
		return KeyValue{}, formatErrorf(tag, line, "empty value for key %q", kv.Key)
	}
	return kv, nil
}

// KodiProp is a #KODIPROP directive, used by Kodi for inputstream and DRM
// properties.
type KodiProp struct {
	KeyValue
}

const kodiPropMarker = "#KODIPROP:"

// KodiPropTag is the definition of the #KODIPROP directive.
var KodiPropTag = TagDef{
	Name:  "KODIPROP",
	Match: PrefixMatcher(kodiPropMarker),
	Parse: func(line string) (Tag, error) {
		kv, err := parseKeyValue("KODIPROP", kodiPropMarker, line)
		if err != nil {
			return nil, err
		}
		return &KodiProp{kv}, nil
	},
}

func (t *KodiProp) Name() string   { return "KODIPROP" }
func (t *KodiProp) String() string { return kodiPropMarker + t.Key + "=" + t.Value }

// VLCOpt is an #EXTVLCOPT directive carrying a VLC player option.
type VLCOpt struct {
	KeyValue
}

const vlcOptMarker = "#EXTVLCOPT:"

// VLCOptTag is the definition of the #EXTVLCOPT directive.
var VLCOptTag = TagDef{
	Name:  "EXTVLCOPT",
	Match: PrefixMatcher(vlcOptMarker),
	Parse: func(line string) (Tag, error) {
		kv, err := parseKeyValue("EXTVLCOPT", vlcOptMarker, line)
		if err != nil {
			return nil, err
		}
		return &VLCOpt{kv}, nil
	},
}

func (t *VLCOpt) Name() string   { return "EXTVLCOPT" }
func (t *VLCOpt) String() string { return vlcOptMarker + t.Key + "=" + t.Value }

// ExtTV is the #EXTTV directive:
//
//	#EXTTV:<tag>[,<tag>...];<language>;<xmltv-id>[;<icon-url>]
type ExtTV struct {
	Tags     []string `json:"tags"`
	Language string   `json:"language"`
	XMLTVID  string   `json:"xmltvId"`
	IconURL  string   `json:"iconUrl,omitempty"`
}

const extTVMarker = "#EXTTV:"

// ExtTVTag is the definition of the #EXTTV directive.
var ExtTVTag = TagDef{
	Name:  "EXTTV",
	Match: PrefixMatcher(extTVMarker),
	Parse: func(line string) (Tag, error) { return ParseExtTV(line) },
}

// ParseExtTV parses a complete #EXTTV line, marker included.
func ParseExtTV(line string) (*ExtTV, error) {
	if !hasPrefixFold(line, extTVMarker) {
		return nil, formatErrorf("EXTTV", line, "missing %s marker", extTVMarker)
	}
	parts := strings.Split(strings.TrimSpace(line[len(extTVMarker):]), ";")
	if len(parts) < 3 {
		return nil, formatErrorf("EXTTV", line, "expected <tags>;<language>;<xmltv-id>[;<icon-url>], got %d fields", len(parts))
	}

	tv := &ExtTV{
		Language: strings.TrimSpace(parts[1]),
		XMLTVID:  strings.TrimSpace(parts[2]),
	}
	for _, tag := range strings.Split(parts[0], ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tv.Tags = append(tv.Tags, tag)
		}
	}
	if len(parts) > 3 {
		tv.IconURL = strings.TrimSpace(strings.Join(parts[3:], ";"))
	}
	return tv, nil
}

func (t *ExtTV) Name() string { return "EXTTV" }

func (t *ExtTV) String() string {
	s := extTVMarker + strings.Join(t.Tags, ",") + ";" + t.Language + ";" + t.XMLTVID
	if t.IconURL != "" {
		s += ";" + t.IconURL
	}
	return s
}

// TextTag is a directive whose payload is a single text value, such as
// #EXTGRP:News or #EXTLOGO:http://example.test/logo.png.
type TextTag struct {
	Tag   string `json:"-"`
	Value string `json:"value"`
}

func (t *TextTag) Name() string   { return t.Tag }
func (t *TextTag) String() string { return "#" + t.Tag + ":" + t.Value }

// NewTextTagDef returns a definition for a single-value directive with the
// given name, e.g. NewTextTagDef("EXTGRP") for #EXTGRP:<group>.
func NewTextTagDef(name string) TagDef {
	marker := "#" + name + ":"
	return TagDef{
		Name:  name,
		Match: PrefixMatcher(marker),
		Parse: func(line string) (Tag, error) {
			if !hasPrefixFold(line, marker) {
				return nil, formatErrorf(name, line, "missing %s marker", marker)
			}
			value := strings.TrimSpace(line[len(marker):])
			if value == "" {
				return nil, formatErrorf(name, line, "empty value")
			}
			return &TextTag{Tag: name, Value: value}, nil
		},
	}
}

// Single-value directives understood by common IPTV players.
var (
	ExtLogoTag        = NewTextTagDef("EXTLOGO")
	ExtGrpTag         = NewTextTagDef("EXTGRP")
	PlaylistTag       = NewTextTagDef("PLAYLIST")
	ExtTitleTag       = NewTextTagDef("EXTTITLE")
	ExtAlbumArtURLTag = NewTextTagDef("EXTALBUMARTURL")
)

// DefaultTags returns the built-in tag definitions in registration order.
func DefaultTags() []TagDef {
	return []TagDef{
		ExtInfTag,
		ExtTVTag,
		ExtLogoTag,
		VLCOptTag,
		KodiPropTag,
		ExtGrpTag,
		PlaylistTag,
		ExtTitleTag,
		ExtAlbumArtURLTag,
	}
}

// RegisterDefaults appends the built-in tags to reg. It panics if a
// built-in definition is invalid.
func RegisterDefaults(reg *Registry) {
	mustRegister(reg, DefaultTags())
}

func mustRegister(reg *Registry, defs []TagDef) {
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			panic(fmt.Sprintf("playlist: built-in tag %s: %v", def.Name, err))
		}
	}
}
