package drive

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	folderLinkRegex = regexp.MustCompile(`/drive/(?:u/\d+/)?folders/([-\w]+)`)
	fileLinkRegex   = regexp.MustCompile(`/file/d/([-\w]+)`)
	bareIDRegex     = regexp.MustCompile(`^[-\w]{20,}$`)
)

// ResolveLink extracts the Drive object id from a sharing link. Folder
// links, file links, id query parameters, and bare ids are supported.
// Returns "" when nothing parseable is found.
func ResolveLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	if m := folderLinkRegex.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	if m := fileLinkRegex.FindStringSubmatch(link); m != nil {
		return m[1]
	}

	if u, err := url.Parse(link); err == nil {
		if id := u.Query().Get("id"); id != "" && bareIDRegex.MatchString(id) {
			return id
		}
	}

	if bareIDRegex.MatchString(link) {
		return link
	}

	return ""
}
