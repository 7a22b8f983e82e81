package subtitle

// StyleMap maps a named style id to the effects it implies. An id that is
// declared without a supported effect maps to an empty set.
type StyleMap map[string]Effect

// Lookup reports the effects of id and whether the style was declared.
func (m StyleMap) Lookup(id string) (Effect, bool) {
	e, ok := m[id]
	return e, ok
}

// IDs returns the style ids carrying every effect in e.
func (m StyleMap) IDs(e Effect) []string {
	var ids []string
	for id, effects := range m {
		if e != 0 && effects.Has(e) {
			ids = append(ids, id)
		}
	}
	return ids
}

// BuildStyleMap scans the styling sections of a TTML/DFXP document.
func BuildStyleMap(doc []byte) (StyleMap, error) {
	root, err := parseXMLTree(doc)
	if err != nil {
		return nil, &ParseError{Family: "TTML/DFXP", Err: err}
	}
	return newStyleMap(root), nil
}

func newStyleMap(root *xmlNode) StyleMap {
	styles := StyleMap{}
	for _, styling := range root.findAll("styling") {
		for _, style := range styling.findAll("style") {
			id, ok := style.attr("id")
			if !ok || id == "" {
				continue
			}
			var effects Effect
			for _, a := range style.Attrs {
				effects |= attrEffect(a)
			}
			styles[id] |= effects
		}
	}
	return styles
}
