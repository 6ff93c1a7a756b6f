package api

import (
	"net/http"

	"github.com/evanhutnik/bettermaps-service/internal/planner"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/gin-gonic/gin"
)

type SessionResponse struct {
	State planner.TripState `json:"state"`
	View  planner.View      `json:"view"`
}

type pointRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

func (r pointRequest) point() t.GeoPoint {
	return t.GeoPoint{Latitude: *r.Lat, Longitude: *r.Lng}
}

type slotRequest struct {
	Slot t.Slot `json:"slot"`
}

type addressRequest struct {
	Slot    t.Slot `json:"slot"`
	Address string `json:"address" binding:"required"`
}

type transportRequest struct {
	Mode string `json:"mode"`
}

type zoomRequest struct {
	Zoom *float64 `json:"zoom" binding:"required"`
}

// registerSession exposes the planner session. Every command answers with the state as it is
// once the command has been applied; lookups it started may still be running.
func (s *Service) registerSession(g *gin.RouterGroup) {
	g.GET("", s.sessionState)
	g.POST("/arm", s.sessionArm)
	g.POST("/click", s.sessionClick)
	g.POST("/address", s.sessionAddress)
	g.POST("/current-location", s.command(func(ss *planner.Session) { ss.UseCurrentLocation() }))
	g.POST("/device-location", s.sessionDeviceLocation)
	g.POST("/transport", s.sessionTransport)
	g.POST("/preferences/tourist", s.command(func(ss *planner.Session) { ss.TogglePreference(planner.PreferenceTourist) }))
	g.POST("/preferences/climatic", s.command(func(ss *planner.Session) { ss.TogglePreference(planner.PreferenceClimatic) }))
	g.POST("/zoom", s.sessionZoom)
	g.POST("/route", s.command(func(ss *planner.Session) { ss.ComputeRoute() }))
	g.POST("/clear", s.command(func(ss *planner.Session) { ss.Clear() }))
}

func (s *Service) writeSession(c *gin.Context) {
	state := s.session.State()
	s.writeResponse(c, SessionResponse{State: state, View: planner.BuildView(state)})
}

func (s *Service) command(fn func(*planner.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		fn(s.session)
		s.writeSession(c)
	}
}

func (s *Service) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.writeError(c, CodeError{code: http.StatusBadRequest, msg: "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Service) sessionState(c *gin.Context) {
	s.writeSession(c)
}

func (s *Service) sessionArm(c *gin.Context) {
	var req slotRequest
	if !s.bind(c, &req) {
		return
	}
	s.session.ArmSlot(req.Slot)
	s.writeSession(c)
}

func (s *Service) sessionClick(c *gin.Context) {
	var req pointRequest
	if !s.bind(c, &req) {
		return
	}
	s.session.MapClick(req.point())
	s.writeSession(c)
}

func (s *Service) sessionAddress(c *gin.Context) {
	var req addressRequest
	if !s.bind(c, &req) {
		return
	}
	if req.Slot == t.SlotNone {
		s.writeError(c, CodeError{code: http.StatusBadRequest, msg: "slot must be origin or destination"})
		return
	}
	s.session.SubmitAddress(req.Slot, req.Address)
	s.writeSession(c)
}

func (s *Service) sessionDeviceLocation(c *gin.Context) {
	var req pointRequest
	if !s.bind(c, &req) {
		return
	}
	s.session.SetDeviceLocation(req.point())
	s.writeSession(c)
}

func (s *Service) sessionTransport(c *gin.Context) {
	var req transportRequest
	if !s.bind(c, &req) {
		return
	}
	mode, err := t.ParseTransportMode(req.Mode)
	if err != nil {
		s.writeError(c, CodeError{code: http.StatusBadRequest, msg: err.Error()})
		return
	}
	s.session.SetTransportMode(mode)
	s.writeSession(c)
}

func (s *Service) sessionZoom(c *gin.Context) {
	var req zoomRequest
	if !s.bind(c, &req) {
		return
	}
	s.session.SetZoom(*req.Zoom)
	s.writeSession(c)
}
