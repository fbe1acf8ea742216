package index

import (
	"sort"
	"strings"
)

// Collection is an ordered set of records
type Collection struct {
	Records []*Record
}

// NewCollection wraps records; the slice is not copied.
func NewCollection(records []*Record) *Collection {
	return &Collection{Records: records}
}

// Len returns the number of records
func (c *Collection) Len() int {
	return len(c.Records)
}

// FilterByTag returns the records carrying tag, ignoring case
func (c *Collection) FilterByTag(tag string) *Collection {
	return c.Filter(func(r *Record) bool { return r.HasTag(tag) })
}

// Filter returns the records for which keep returns true
func (c *Collection) Filter(keep func(*Record) bool) *Collection {
	var out []*Record
	for _, r := range c.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return NewCollection(out)
}

// SortByDate returns a copy ordered newest first; ties order by slug.
func (c *Collection) SortByDate() *Collection {
	out := append([]*Record(nil), c.Records...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Slug < out[j].Slug
	})
	return NewCollection(out)
}

// Tags returns the distinct tags of all records, lowercased and sorted
func (c *Collection) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, r := range c.Records {
		for _, t := range r.Tags {
			key := strings.ToLower(t)
			if !seen[key] {
				seen[key] = true
				tags = append(tags, key)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// BySlug returns the record with the given slug, or nil
func (c *Collection) BySlug(slug string) *Record {
	for _, r := range c.Records {
		if r.Slug == slug {
			return r
		}
	}
	return nil
}
