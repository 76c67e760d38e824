package geocode

import (
	"net/url"
	"regexp"
	"strconv"

	"github.com/joshua-takyi/gigbook/internal/models"
)

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformDesktop Platform = "desktop"
)

const (
	appleMapsURL  = "https://maps.apple.com/"
	googleMapsURL = "https://maps.google.com/maps"
)

var (
	iosAgent     = regexp.MustCompile(`iPad|iPhone|iPod`)
	androidAgent = regexp.MustCompile(`Android`)
)

func PlatformFromUserAgent(ua string) Platform {
	switch {
	case iosAgent.MatchString(ua):
		return PlatformIOS
	case androidAgent.MatchString(ua):
		return PlatformAndroid
	default:
		return PlatformDesktop
	}
}

// DirectionsURL links to turn-by-turn directions for the platform's native
// maps app. from may be nil. Desktop prefers the address as the destination;
// mobile prefers the pin. With no pin the address is used everywhere.
func DirectionsURL(platform Platform, from, to *models.Coordinates, address string) string {
	if to == nil && address == "" {
		return ""
	}

	base := googleMapsURL
	if platform == PlatformIOS {
		base = appleMapsURL
	}

	var daddr string
	switch {
	case to == nil:
		daddr = address
	case platform == PlatformDesktop && address != "":
		daddr = address
	default:
		daddr = point(to)
	}

	q := url.Values{}
	if from != nil {
		q.Set("saddr", point(from))
	}
	q.Set("daddr", daddr)
	return base + "?" + q.Encode()
}

func point(c *models.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}
