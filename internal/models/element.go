package models

// Element is one unit of rendered ticker output: the atomic thing the
// broadcast hardware displays.
type Element struct {
	ID       string         `json:"id,omitempty"`
	Template string         `json:"template,omitempty"`
	Duration int            `json:"duration,omitempty"` // seconds, 0 = consumer default
	TTL      *ElementTTL    `json:"ttl,omitempty"`
	Fields   []ElementField `json:"fields"`
}

// ElementField is one rendered name/value pair inside an element.
type ElementField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ElementTTL instructs the consuming hardware to expire an element.
type ElementTTL struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

// Document is the fully rendered, pruned feed for one channel, ready for
// XML serialization.
type Document struct {
	Version   string
	Playlists []PlaylistOutput
}

// PlaylistOutput is one rendered playlist. Playlists that yielded no
// elements are pruned before the document is assembled.
type PlaylistOutput struct {
	Name   string
	Type   string
	Target string
	Groups []GroupOutput
}

// GroupOutput is one rendered bucket.
type GroupOutput struct {
	ContentID   string
	Description string
	Color       string
	Elements    []Element
}

// Playlist type classifications emitted in the wire format.
const (
	PlaylistTypeScrolling = "scrolling_carousel"
	PlaylistTypeFlipping  = "flipping_carousel"
)
