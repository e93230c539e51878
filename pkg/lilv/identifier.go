package lilv

import "fmt"

// Identifier indexes the static table of well-known LV2 URIs. Valid values
// are in [0, NumIdentifiers).
type Identifier int

const (
	AudioPort Identifier = iota
	ControlPort
	InputPort
	OutputPort
	CVPort
	AtomPort
	AtomSequence
	MidiEvent
	ConnectionOptional
	URIDMap
	Default
	Minimum
	Maximum

	// NumIdentifiers is the number of node slots every World carries.
	NumIdentifiers int = iota
)

const (
	nsLV2  = "http://lv2plug.in/ns/lv2core#"
	nsAtom = "http://lv2plug.in/ns/ext/atom#"
	nsMidi = "http://lv2plug.in/ns/ext/midi#"
	nsURID = "http://lv2plug.in/ns/ext/urid#"
)

// Option keys understood by lilv_world_set_option.
const (
	OptionFilterLang  = "http://drobilla.net/ns/lilv#filter-lang"
	OptionDynManifest = "http://drobilla.net/ns/lilv#dyn-manifest"
	OptionLV2Path     = "http://drobilla.net/ns/lilv#lv2-path"
)

type identifierEntry struct {
	name string
	uri  string
}

var identifierTable = [NumIdentifiers]identifierEntry{
	AudioPort:          {"lv2:AudioPort", nsLV2 + "AudioPort"},
	ControlPort:        {"lv2:ControlPort", nsLV2 + "ControlPort"},
	InputPort:          {"lv2:InputPort", nsLV2 + "InputPort"},
	OutputPort:         {"lv2:OutputPort", nsLV2 + "OutputPort"},
	CVPort:             {"lv2:CVPort", nsLV2 + "CVPort"},
	AtomPort:           {"atom:AtomPort", nsAtom + "AtomPort"},
	AtomSequence:       {"atom:Sequence", nsAtom + "Sequence"},
	MidiEvent:          {"midi:MidiEvent", nsMidi + "MidiEvent"},
	ConnectionOptional: {"lv2:connectionOptional", nsLV2 + "connectionOptional"},
	URIDMap:            {"urid:map", nsURID + "map"},
	Default:            {"lv2:default", nsLV2 + "default"},
	Minimum:            {"lv2:minimum", nsLV2 + "minimum"},
	Maximum:            {"lv2:maximum", nsLV2 + "maximum"},
}

// Valid reports whether id addresses an entry of the table.
func (id Identifier) Valid() bool {
	return id >= 0 && int(id) < NumIdentifiers
}

// URI returns the full URI for id, or "" when id is out of range.
func (id Identifier) URI() string {
	if !id.Valid() {
		return ""
	}
	return identifierTable[id].uri
}

// String returns the prefixed name, e.g. "lv2:AudioPort".
func (id Identifier) String() string {
	if !id.Valid() {
		return fmt.Sprintf("Identifier(%d)", int(id))
	}
	return identifierTable[id].name
}

// LookupIdentifier finds an identifier by prefixed name or full URI.
func LookupIdentifier(s string) (Identifier, bool) {
	for i, e := range identifierTable {
		if e.name == s || e.uri == s {
			return Identifier(i), true
		}
	}
	return 0, false
}

// Identifiers returns every identifier in table order.
func Identifiers() []Identifier {
	ids := make([]Identifier, NumIdentifiers)
	for i := range ids {
		ids[i] = Identifier(i)
	}
	return ids
}
