package planner

import t "github.com/evanhutnik/bettermaps-service/internal/types"

// Arm sets the slot the next map click fills. Arming the slot that is already armed disarms it.
func (s *TripState) Arm(slot t.Slot) {
	if s.Selection == slot {
		s.Selection = t.SlotNone
		return
	}
	s.Selection = slot
}

// ConsumeSpatialInput hands a map click to the armed slot and disarms it. It reports false when
// nothing is armed and the click must be ignored.
func (s *TripState) ConsumeSpatialInput() (t.Slot, bool) {
	slot := s.Selection
	if slot == t.SlotNone {
		return t.SlotNone, false
	}
	s.Selection = t.SlotNone
	return slot, true
}

// TakeCurrentLocation returns the device location for use as origin, disarming the origin slot
// if it was armed. It reports false while the device location is unknown.
func (s *TripState) TakeCurrentLocation() (t.GeoPoint, bool) {
	if s.DeviceLocation == nil {
		return t.GeoPoint{}, false
	}
	if s.Selection == t.SlotOrigin {
		s.Selection = t.SlotNone
	}
	return *s.DeviceLocation, true
}
