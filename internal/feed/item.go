// Package feed harvests videos from channel RSS/MRSS feeds.
package feed

import (
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// Item is one video entry extracted from a feed.
type Item struct {
	MediaID     string
	Title       string
	Description string
	VideoURL    string
	PageURL     string
	Thumbnail   string
	Duration    int
}

// Items extracts video entries from a parsed feed. Entries without a GUID or
// link are dropped since they cannot be matched to a stored row.
func Items(feed *gofeed.Feed) []Item {
	if feed == nil {
		return nil
	}

	items := make([]Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if fi == nil {
			continue
		}
		item := fromFeedItem(fi)
		if item.MediaID == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func fromFeedItem(fi *gofeed.Item) Item {
	item := Item{
		MediaID:     strings.TrimSpace(fi.GUID),
		Title:       strings.TrimSpace(fi.Title),
		Description: strings.TrimSpace(fi.Description),
		PageURL:     strings.TrimSpace(fi.Link),
	}
	if item.MediaID == "" {
		item.MediaID = item.PageURL
	}

	media := mediaElements(fi.Extensions)
	for _, content := range media["content"] {
		if item.VideoURL == "" && isVideo(content) {
			item.VideoURL = content.Attrs["url"]
		}
		if item.Duration == 0 {
			item.Duration = parseDuration(content.Attrs["duration"])
		}
	}
	if item.VideoURL == "" {
		for _, enc := range fi.Enclosures {
			if enc != nil && strings.HasPrefix(enc.Type, "video/") {
				item.VideoURL = enc.URL
				break
			}
		}
	}
	if item.VideoURL == "" {
		for _, content := range media["content"] {
			if u := content.Attrs["url"]; u != "" {
				item.VideoURL = u
				break
			}
		}
	}

	for _, thumb := range media["thumbnail"] {
		if u := thumb.Attrs["url"]; u != "" {
			item.Thumbnail = u
			break
		}
	}
	if item.Thumbnail == "" && fi.Image != nil {
		item.Thumbnail = fi.Image.URL
	}

	if item.Description == "" {
		for _, desc := range media["description"] {
			if v := strings.TrimSpace(desc.Value); v != "" {
				item.Description = v
				break
			}
		}
	}
	if item.Title == "" {
		for _, title := range media["title"] {
			if v := strings.TrimSpace(title.Value); v != "" {
				item.Title = v
				break
			}
		}
	}

	if item.Duration == 0 && fi.ITunesExt != nil {
		item.Duration = parseDuration(fi.ITunesExt.Duration)
	}

	return item
}

// mediaElements flattens the media namespace, including elements nested in
// media:group, into one map keyed by element name.
func mediaElements(extensions ext.Extensions) map[string][]ext.Extension {
	out := make(map[string][]ext.Extension)
	media, ok := extensions["media"]
	if !ok {
		return out
	}
	for name, elems := range media {
		if name == "group" {
			for _, group := range elems {
				for child, nested := range group.Children {
					out[child] = append(out[child], nested...)
				}
			}
			continue
		}
		out[name] = append(out[name], elems...)
	}
	return out
}

func isVideo(content ext.Extension) bool {
	if content.Attrs["url"] == "" {
		return false
	}
	return content.Attrs["medium"] == "video" || strings.HasPrefix(content.Attrs["type"], "video/")
}

// parseDuration accepts whole seconds or [HH:]MM:SS. Anything else is 0.
func parseDuration(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	total := 0
	for _, part := range strings.Split(raw, ":") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
