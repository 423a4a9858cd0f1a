package documents

import (
	"fmt"
	"net/url"
	"strings"

	"alfares-pricing/internal/storage"
)

// MapURL builds the map link printed on offers: a Google Maps query from
// the stored "lat,lng" pair when present, else the authored GPS link, else
// the bare maps page.
func MapURL(b storage.Billboard) string {
	coords := strings.TrimSpace(b.Coordinates)
	if i := strings.Index(coords, ","); i > 0 {
		lat := strings.TrimSpace(coords[:i])
		lng := strings.TrimSpace(coords[i+1:])
		if lat != "" && lng != "" {
			return fmt.Sprintf("https://www.google.com/maps?q=%s,%s",
				url.QueryEscape(lat), url.QueryEscape(lng))
		}
	}
	if b.GPSLink != "" {
		return b.GPSLink
	}
	return "https://www.google.com/maps"
}
