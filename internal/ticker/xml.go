package ticker

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/jonesrussell/tickerd/internal/models"
)

// Wire types for the tickerfeed XML format. Tag and attribute names are
// dictated by the consuming hardware.
type xmlFeed struct {
	XMLName   xml.Name      `xml:"tickerfeed"`
	Version   string        `xml:"version,attr"`
	Playlists []xmlPlaylist `xml:"playlist"`
}

type xmlPlaylist struct {
	Type   string     `xml:"type,attr"`
	Name   string     `xml:"name,attr"`
	Target string     `xml:"target,attr"`
	Groups []xmlGroup `xml:"group"`
}

type xmlGroup struct {
	UseExisting string      `xml:"use_existing,attr"`
	Description string      `xml:"description"`
	GUIColor    string      `xml:"gui-color"`
	Elements    xmlElements `xml:"elements"`
}

type xmlElements struct {
	Elements []xmlElement `xml:"element"`
}

type xmlElement struct {
	ID       string     `xml:"id,attr,omitempty"`
	Template string     `xml:"template,attr,omitempty"`
	Duration string     `xml:"duration,attr,omitempty"`
	TTL      *xmlTTL    `xml:"ttl,omitempty"`
	Fields   []xmlField `xml:"field"`
}

type xmlTTL struct {
	Action string `xml:"action,attr"`
	Value  string `xml:"value,attr"`
}

type xmlField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// MarshalDocument serializes a rendered document into the ticker wire
// format. Element IDs are only emitted when includeIDs is set.
func MarshalDocument(doc *models.Document, includeIDs bool) ([]byte, error) {
	feed := xmlFeed{Version: doc.Version}

	for _, playlist := range doc.Playlists {
		xp := xmlPlaylist{
			Type:   playlist.Type,
			Name:   playlist.Name,
			Target: playlist.Target,
		}
		for _, group := range playlist.Groups {
			xg := xmlGroup{
				UseExisting: group.ContentID,
				Description: group.Description,
				GUIColor:    group.Color,
			}
			for i := range group.Elements {
				xg.Elements.Elements = append(xg.Elements.Elements, marshalElement(&group.Elements[i], includeIDs))
			}
			xp.Groups = append(xp.Groups, xg)
		}
		feed.Playlists = append(feed.Playlists, xp)
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal ticker feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func marshalElement(element *models.Element, includeIDs bool) xmlElement {
	xe := xmlElement{Template: element.Template}
	if includeIDs {
		xe.ID = element.ID
	}
	if element.Duration > 0 {
		xe.Duration = strconv.Itoa(element.Duration)
	}
	if element.TTL != nil {
		xe.TTL = &xmlTTL{Action: element.TTL.Action, Value: element.TTL.Value}
	}
	for _, field := range element.Fields {
		xe.Fields = append(xe.Fields, xmlField{
			Name:  field.Name,
			Value: rewriteBoolean(field.Value),
		})
	}
	return xe
}

// rewriteBoolean maps the literal strings "true" and "false" to "1" and
// "0". The consuming hardware expects numeric booleans; the rewrite is
// value-level and case-sensitive, so "True" passes through unchanged.
func rewriteBoolean(value string) string {
	switch value {
	case "true":
		return "1"
	case "false":
		return "0"
	default:
		return value
	}
}
