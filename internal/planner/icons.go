package planner

import t "github.com/evanhutnik/bettermaps-service/internal/types"

type Tier int

const (
	TierMini Tier = iota
	TierSmall
	TierNormal
)

func (tr Tier) String() string {
	switch tr {
	case TierNormal:
		return "normal"
	case TierSmall:
		return "small"
	default:
		return "mini"
	}
}

const (
	normalZoom = 15
	smallZoom  = 12
)

// SelectTier picks the point icon size for a zoom level; boundaries belong to the upper tier.
func SelectTier(zoom float64) Tier {
	switch {
	case zoom >= normalZoom:
		return TierNormal
	case zoom >= smallZoom:
		return TierSmall
	default:
		return TierMini
	}
}

type Icon struct {
	URL         string `json:"url"`
	Size        [2]int `json:"size"`
	Anchor      [2]int `json:"anchor"`
	PopupAnchor [2]int `json:"popupAnchor"`
}

type IconKey struct {
	Class PointClass
	Tier  Tier
}

var tierSizes = map[Tier]int{
	TierNormal: 24,
	TierSmall:  16,
	TierMini:   10,
}

var classIconURLs = map[PointClass]string{
	ClassTourist: "https://cdn-icons-png.flaticon.com/512/3203/3203071.png",
	ClassSun:     "https://cdn-icons-png.flaticon.com/512/869/869869.png",
	ClassRain:    "https://cdn-icons-png.flaticon.com/512/1146/1146860.png",
}

func bottomAnchored(url string, size int) Icon {
	return Icon{
		URL:         url,
		Size:        [2]int{size, size},
		Anchor:      [2]int{size / 2, size},
		PopupAnchor: [2]int{0, -size},
	}
}

// pointIcons holds every (class, tier) pair; built once.
var pointIcons = func() map[IconKey]Icon {
	icons := make(map[IconKey]Icon, len(classIconURLs)*len(tierSizes))
	for class, url := range classIconURLs {
		for tier, size := range tierSizes {
			icons[IconKey{Class: class, Tier: tier}] = bottomAnchored(url, size)
		}
	}
	return icons
}()

// PointIcon is the marker icon for a point of interest at the given zoom.
func PointIcon(category string, zoom float64) Icon {
	return pointIcons[IconKey{Class: Classify(category), Tier: SelectTier(zoom)}]
}

const markerSize = 36

var (
	originIcons = map[t.TransportMode]Icon{
		t.Driving: bottomAnchored("/car_marker.png", markerSize),
		t.Cycling: bottomAnchored("/bike_marker.png", markerSize),
		t.Walking: bottomAnchored("/foot_marker.png", markerSize),
	}
	DestinationIcon = bottomAnchored("/destination_marker.png", markerSize)
	HomeIcon        = bottomAnchored("/home_marker.png", markerSize)
)

// OriginIcon is the origin marker for a transport mode, the car for unknown modes.
func OriginIcon(mode t.TransportMode) Icon {
	if icon, ok := originIcons[mode]; ok {
		return icon
	}
	return originIcons[t.Driving]
}
