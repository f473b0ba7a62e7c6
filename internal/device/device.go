// Package device classifies the viewing environment for density defaults.
package device

import "strings"

// Densities applied when the caller does not override density
// explicitly. Mobile form factors typically pair smaller boxes with
// higher-density screens, so they get a higher multiplier.
const (
	DesktopDensity = 1.0
	MobileDensity  = 2.0
)

// mobileTokens are user-agent substrings that indicate a mobile device.
var mobileTokens = []string{
	"android", "iphone", "ipad", "ipod", "mobile", "windows phone", "opera mini",
}

// IsMobile reports whether the user agent describes a mobile device.
// An empty user agent is treated as desktop.
func IsMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, tok := range mobileTokens {
		if strings.Contains(ua, tok) {
			return true
		}
	}
	return false
}

// DefaultDensity returns the density multiplier for the given form factor.
func DefaultDensity(mobile bool) float64 {
	if mobile {
		return MobileDensity
	}
	return DesktopDensity
}
