// Package platform maps social-media platform names to display tokens.
//
// Lookups are total: unknown or empty names resolve to Fallback instead of
// failing, since platform strings may come from users or imported feeds.
package platform

import "strings"

// Color is a "#RRGGBB" display color.
type Color string

// IconKey names an icon in the presentation layer's icon set.
type IconKey string

// Platform is one row of the registry.
type Platform struct {
	Name  string  `json:"name"`
	Color Color   `json:"color"`
	Icon  IconKey `json:"icon"`
}

const (
	FallbackColor Color   = "#6E6E6E"
	FallbackIcon  IconKey = "message-square"
)

// Fallback is returned for names that are not in the registry.
var Fallback = Platform{Name: "Other", Color: FallbackColor, Icon: FallbackIcon}

var known = []Platform{
	{Name: "Instagram", Color: "#E1306C", Icon: "instagram"},
	{Name: "Facebook", Color: "#4267B2", Icon: "facebook"},
	{Name: "Twitter", Color: "#1DA1F2", Icon: "twitter"},
	{Name: "YouTube", Color: "#FF0000", Icon: "youtube"},
	{Name: "TikTok", Color: "#000000", Icon: "message-square"},
	{Name: "LinkedIn", Color: "#0077B5", Icon: "linkedin"},
	{Name: "Twitch", Color: "#6441A4", Icon: "twitch"},
}

// aliases maps extra lowercase names onto a registry row.
var aliases = map[string]string{
	"x":         "twitter",
	"twitter/x": "twitter",
}

var byKey = func() map[string]Platform {
	m := make(map[string]Platform, len(known)+len(aliases))
	for _, p := range known {
		m[strings.ToLower(p.Name)] = p
	}
	for alias, target := range aliases {
		m[alias] = m[target]
	}
	return m
}()

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup returns the registry row for name, or Fallback.
func Lookup(name string) Platform {
	if p, ok := byKey[key(name)]; ok {
		return p
	}
	return Fallback
}

// IsKnown reports whether name (or one of its aliases) is in the registry.
func IsKnown(name string) bool {
	_, ok := byKey[key(name)]
	return ok
}

func ColorOf(name string) Color {
	return Lookup(name).Color
}

func IconKeyOf(name string) IconKey {
	return Lookup(name).Icon
}

// Canonical returns the registry display name for known platforms and the
// trimmed input otherwise.
func Canonical(name string) string {
	if p, ok := byKey[key(name)]; ok {
		return p.Name
	}
	return strings.TrimSpace(name)
}

// Known returns a copy of the registry in display order.
func Known() []Platform {
	out := make([]Platform, len(known))
	copy(out, known)
	return out
}
