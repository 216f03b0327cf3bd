package models

import (
	"strconv"
	"strings"
)

// TagKind identifies which inventory bucket an option feeds.
type TagKind string

const (
	TagNone      TagKind = ""
	TagMilk      TagKind = "milk"
	TagShots     TagKind = "shots"
	TagChocolate TagKind = "chocolate"
	TagSyrup     TagKind = "syrup"
	TagFlag      TagKind = "flag"
)

// Flag values carried by TagFlag options.
const (
	FlagDirty = "dirty"
	FlagCream = "cream"
)

// OptionTag is the decoded form of an option id such as "milk-oat" or
// "shots-2". Unrecognised ids decode to the zero tag.
type OptionTag struct {
	Kind  TagKind `json:"kind,omitempty"`
	Value string  `json:"value,omitempty"`
}

var tagPrefixes = []TagKind{TagMilk, TagShots, TagChocolate, TagSyrup}

// DecodeOptionTag maps an option id onto its tag. Prefixed ids keep the text
// after the dash as the value; "dirty" and "cream" are bare flags.
func DecodeOptionTag(id string) OptionTag {
	switch id {
	case FlagDirty, FlagCream:
		return OptionTag{Kind: TagFlag, Value: id}
	}
	for _, kind := range tagPrefixes {
		prefix := string(kind) + "-"
		if strings.HasPrefix(id, prefix) && len(id) > len(prefix) {
			return OptionTag{Kind: kind, Value: strings.TrimPrefix(id, prefix)}
		}
	}
	return OptionTag{}
}

// Shots returns the shot count carried by a shots tag.
func (t OptionTag) Shots() (int, bool) {
	if t.Kind != TagShots {
		return 0, false
	}
	n, err := strconv.Atoi(t.Value)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Is reports whether the tag has the given kind and value.
func (t OptionTag) Is(kind TagKind, value string) bool {
	return t.Kind == kind && t.Value == value
}
