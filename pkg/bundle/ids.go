package bundle

// idSet collects distinct identifiers in first-seen order.
type idSet struct {
	seen  map[string]bool
	order []string
}

func newIDSet() *idSet {
	return &idSet{seen: map[string]bool{}}
}

func (s *idSet) add(id string) {
	if id == "" || s.seen[id] {
		return
	}
	s.seen[id] = true
	s.order = append(s.order, id)
}

func (s *idSet) addRef(id *string) {
	if id != nil {
		s.add(*id)
	}
}

func (s *idSet) has(id string) bool {
	return s.seen[id]
}

func (s *idSet) ids() []string {
	return s.order
}

// keep returns ref when it names a collected id, nil otherwise.
func (s *idSet) keep(ref *string) *string {
	if ref == nil || !s.has(*ref) {
		return nil
	}
	return ref
}

func orEmpty[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}
