// Package domain turns USGS earthquake records into display-ready rows.
//
// # Data Source
//
// Earthquake records originate from the USGS Earthquake Hazards Program GeoJSON
// feeds, available at https://earthquake.usgs.gov/earthquakes/feed/v1.0/geojson.php.
// The upstream collector publishes each feature of a feed as one JSON message to
// the Kafka source topic. Only the properties needed for display are read:
//
//	"mag"   magnitude, may be null for events still under review
//	"place" free-form place description, may be null
//	"time"  milliseconds since the Unix epoch (UTC)
//	"url"   event detail page, carried through untouched
//
// # Display Conventions
//
// Magnitude label:
//
//	One decimal digit, round-half-up on the shortest decimal form of the value:
//	6.05 -> "6.1", 5.95 -> "6.0", -0.05 -> "-0.1". Negative zero renders "0.0".
//
// Magnitude category:
//
//	floor(magnitude) snapped onto the configured bounds (default 0..9). Values
//	below the lowest bound take the lowest bound; otherwise the largest bound not
//	above floor(magnitude) is used. The renderer maps the category to a colour;
//	this package never knows about colours.
//
// Location split:
//
//	"<offset> of <place>"  ->  e.g. "5km N of Cairo, Egypt"
//	offset = everything up to and including the first "of" ("5km N of"),
//	place  = the trimmed remainder ("Cairo, Egypt").
//	Without a separator the offset is the fallback phrase ("Near the") and the
//	place is the text unchanged. The default matcher is a plain, case-sensitive
//	substring search, so "Rooftop" splits inside the word; the "word" matcher
//	only accepts a standalone "of".
//
// Date and time:
//
//	"Jan 2, 2006" and "3:04 PM" in one configured zone (default UTC). Go's
//	layouts use fixed English month names, so output does not depend on the
//	host locale.
//
// # ID Generation
//
// Features without an "id" get a deterministic SHA-256 derived ID of
// mag|place|time so replays produce the same key. See [generateID].
package domain
