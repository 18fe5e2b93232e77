package booqable

import "encoding/json"

// Document is the JSON:API envelope the booking API wraps every list and
// single-resource response in. Sideloaded records arrive in Included.
type Document struct {
	Data     json.RawMessage `json:"data"`
	Included []Resource      `json:"included,omitempty"`
	Meta     Meta            `json:"meta,omitempty"`
}

// Meta carries paging hints.
type Meta struct {
	Total int `json:"total_count,omitempty"`
}

// Resource is one JSON:API record: a type/id pair with a free-form
// attributes map and named relationships.
type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Relationship holds either a single linkage or a list, depending on the
// relation's cardinality. Raw is decoded lazily by One/Many.
type Relationship struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// Linkage is a type/id reference into the Included side table.
type Linkage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// One decodes a to-one relationship. Missing or null linkage returns ok=false.
func (r Relationship) One() (Linkage, bool) {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return Linkage{}, false
	}
	var link Linkage
	if err := json.Unmarshal(r.Data, &link); err != nil || link.ID == "" {
		return Linkage{}, false
	}
	return link, true
}

// Many decodes a to-many relationship. Missing linkage returns an empty slice.
func (r Relationship) Many() []Linkage {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	var links []Linkage
	if err := json.Unmarshal(r.Data, &links); err != nil {
		return nil
	}
	return links
}

// resources decodes the data member, tolerating both single objects and
// arrays so callers never branch on response shape.
func (d Document) resources() []Resource {
	if len(d.Data) == 0 || string(d.Data) == "null" {
		return nil
	}
	var many []Resource
	if err := json.Unmarshal(d.Data, &many); err == nil {
		return many
	}
	var one Resource
	if err := json.Unmarshal(d.Data, &one); err == nil && one.ID != "" {
		return []Resource{one}
	}
	return nil
}

// IncludedIndex maps "type:id" to the sideloaded resource for O(1) lookups.
func IncludedIndex(included []Resource) map[string]Resource {
	idx := make(map[string]Resource, len(included))
	for _, res := range included {
		idx[res.Type+":"+res.ID] = res
	}
	return idx
}
