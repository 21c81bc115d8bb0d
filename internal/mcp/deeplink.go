package mcp

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultWebURL is the web interface assumed when neither the tool
// call nor the environment names one.
const DefaultWebURL = "http://localhost:5000"

// DeepLink builds a shareable URL into the web interface: a project
// view when title is empty, otherwise a note view, optionally pinned
// to one version. The returned text includes a human-readable header
// above the URL.
func DeepLink(baseURL, project, title, version string) string {
	baseURL = strings.TrimRight(baseURL, "/")

	if title == "" {
		link := fmt.Sprintf("%s/project/%s", baseURL, url.PathEscape(project))
		return fmt.Sprintf("Deep link to project '%s':\n%s", project, link)
	}

	link := fmt.Sprintf("%s/note/%s/%s", baseURL, url.PathEscape(project), url.PathEscape(title))
	versionInfo := ""
	if version != "" {
		link += "?version=" + url.PathEscape(version)
		versionInfo = fmt.Sprintf(" (version: %s)", version)
	}
	return fmt.Sprintf("Deep link to note '%s' in project '%s'%s:\n%s", title, project, versionInfo, link)
}
