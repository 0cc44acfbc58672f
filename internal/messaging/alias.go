package messaging

// AliasSet is the set of identifiers (phone number, account id) known to
// refer to one account. Order is preserved; the first alias is the one used
// when a single reference must be written.
type AliasSet []string

// NewAliasSet drops empty and duplicate parts.
func NewAliasSet(parts ...string) AliasSet {
	set := make(AliasSet, 0, len(parts))
	for _, p := range parts {
		if p == "" || set.Contains(p) {
			continue
		}
		set = append(set, p)
	}
	return set
}

func (s AliasSet) Contains(alias string) bool {
	for _, a := range s {
		if a == alias {
			return true
		}
	}
	return false
}

func (s AliasSet) Intersects(o AliasSet) bool {
	for _, a := range s {
		if o.Contains(a) {
			return true
		}
	}
	return false
}

// Union returns a new set holding s followed by the aliases of o not in s.
func (s AliasSet) Union(o AliasSet) AliasSet {
	out := make([]string, 0, len(s)+len(o))
	out = append(out, s...)
	out = append(out, o...)
	return NewAliasSet(out...)
}

func (s AliasSet) Empty() bool {
	return len(s) == 0
}

// Primary returns the first alias, or "" for an empty set.
func (s AliasSet) Primary() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
