package models

// LinkSet is an insertion-ordered set of non-empty detail-page URLs.
// The zero value is ready to use.
type LinkSet struct {
	links []string
	seen  map[string]struct{}
}

// NewLinkSet builds a LinkSet from links, dropping empties and repeats.
func NewLinkSet(links ...string) *LinkSet {
	s := &LinkSet{}
	for _, l := range links {
		s.Add(l)
	}
	return s
}

// Add appends link unless it is empty or already present. It reports
// whether the set grew.
func (s *LinkSet) Add(link string) bool {
	if link == "" || s.Contains(link) {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	s.seen[link] = struct{}{}
	s.links = append(s.links, link)
	return true
}

func (s *LinkSet) Contains(link string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[link]
	return ok
}

func (s *LinkSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.links)
}

// Links returns a copy of the links in insertion order.
func (s *LinkSet) Links() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.links))
	copy(out, s.links)
	return out
}

// Last returns up to n of the most recently added links.
func (s *LinkSet) Last(n int) []string {
	links := s.Links()
	if n < len(links) {
		links = links[len(links)-n:]
	}
	return links
}
