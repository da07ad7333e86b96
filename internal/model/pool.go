package model

// PoolSet unique pool addresses in first-seen order
type PoolSet struct {
	seen  map[string]struct{}
	items []string
}

func NewPoolSet() *PoolSet {
	return &PoolSet{seen: make(map[string]struct{})}
}

// Add reports whether addr was new. Empty addresses are ignored.
func (s *PoolSet) Add(addr string) bool {
	if addr == "" {
		return false
	}
	if _, ok := s.seen[addr]; ok {
		return false
	}
	s.seen[addr] = struct{}{}
	s.items = append(s.items, addr)
	return true
}

func (s *PoolSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Addresses returns at most limit addresses, all of them when limit <= 0.
func (s *PoolSet) Addresses(limit int) []string {
	if s == nil {
		return nil
	}
	if limit <= 0 || limit >= len(s.items) {
		return append([]string(nil), s.items...)
	}
	return append([]string(nil), s.items[:limit]...)
}
