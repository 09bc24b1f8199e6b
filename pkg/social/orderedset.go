package social

// orderedSet de-duplicates strings while keeping first-seen order
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(item string) {
	if _, ok := s.seen[item]; ok {
		return
	}
	s.seen[item] = struct{}{}
	s.items = append(s.items, item)
}

// first returns up to n items
func (s *orderedSet) first(n int) []string {
	if len(s.items) <= n {
		return s.items
	}
	return s.items[:n]
}
