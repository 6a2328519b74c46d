package plex

import (
	"encoding/xml"
	"time"
)

// HamaAgent is the agent identifier of the HAMA anime metadata agent.
const HamaAgent = "com.plexapp.agents.hama"

// Section represents a Plex library section.
type Section struct {
	Key   string `xml:"key,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
	Agent string `xml:"agent,attr"`
}

// Media is one encoded version of an item.
type Media struct {
	VideoResolution string `xml:"videoResolution,attr"`
	Width           int    `xml:"width,attr"`
}

// Is4K reports whether the media is a 4K encode.
func (m Media) Is4K() bool { return m.VideoResolution == "4k" }

// GUID is an external id reference ("imdb://tt0137523").
type GUID struct {
	ID string `xml:"id,attr"`
}

// Item is a movie, show, season or episode as Plex lists it.
type Item struct {
	RatingKey            string  `xml:"ratingKey,attr"`
	ParentRatingKey      string  `xml:"parentRatingKey,attr"`
	GrandparentRatingKey string  `xml:"grandparentRatingKey,attr"`
	GUID                 string  `xml:"guid,attr"`
	Type                 string  `xml:"type,attr"` // movie, show, season, episode
	Title                string  `xml:"title,attr"`
	Year                 int     `xml:"year,attr"`
	Index                int     `xml:"index,attr"`
	AddedAt              int64   `xml:"addedAt,attr"`
	Media                []Media `xml:"Media"`
	GUIDs                []GUID  `xml:"Guid"`
	Children             []Item  `xml:"Children>Directory"`
}

// Added returns AddedAt as a time.
func (i Item) Added() time.Time {
	return time.Unix(i.AddedAt, 0)
}

// Has4K reports whether any media version is 4K.
func (i Item) Has4K() bool {
	for _, m := range i.Media {
		if m.Is4K() {
			return true
		}
	}
	return false
}

// HasNon4K reports whether any media version is not 4K.
func (i Item) HasNon4K() bool {
	for _, m := range i.Media {
		if !m.Is4K() {
			return true
		}
	}
	return false
}

// Child returns the child (season) with the given index.
func (i Item) Child(index int) (Item, bool) {
	for _, c := range i.Children {
		if c.Index == index {
			return c, true
		}
	}
	return Item{}, false
}

// Contents is one page of a library section.
type Contents struct {
	Items     []Item
	TotalSize int
}

// container is the MediaContainer envelope shared by every endpoint.
type container struct {
	XMLName     xml.Name `xml:"MediaContainer"`
	Size        int      `xml:"size,attr"`
	TotalSize   int      `xml:"totalSize,attr"`
	Videos      []Item   `xml:"Video"`     // movies, episodes
	Directories []Item   `xml:"Directory"` // shows, seasons
}

func (c container) items() []Item {
	items := make([]Item, 0, len(c.Videos)+len(c.Directories))
	items = append(items, c.Videos...)
	items = append(items, c.Directories...)
	return items
}

// sectionsResponse is the XML response from /library/sections.
type sectionsResponse struct {
	XMLName  xml.Name  `xml:"MediaContainer"`
	Sections []Section `xml:"Directory"`
}

// identityResponse is the XML response from the root endpoint.
type identityResponse struct {
	XMLName      xml.Name `xml:"MediaContainer"`
	FriendlyName string   `xml:"friendlyName,attr"`
	Version      string   `xml:"version,attr"`
}

// Identity holds Plex server identity information.
type Identity struct {
	Name    string
	Version string
}
