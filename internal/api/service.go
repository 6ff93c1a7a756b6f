package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/evanhutnik/bettermaps-service/internal/metrics"
	"github.com/evanhutnik/bettermaps-service/internal/osrm"
	"github.com/evanhutnik/bettermaps-service/internal/planner"
	t "github.com/evanhutnik/bettermaps-service/internal/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CodeError struct {
	code int
	msg  string
}

func (c CodeError) Error() string {
	return c.msg
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type RouteService interface {
	Route(ctx context.Context, q t.RouteQuery) (*t.RouteResponse, error)
}

type NearestService interface {
	Nearest(ctx context.Context, profile t.TransportMode, p t.GeoPoint, number int) (*osrm.NearestResponse, error)
}

type ServiceOption func(*Service)

func RoutesOption(routes RouteService) ServiceOption {
	return func(s *Service) {
		s.routes = routes
	}
}

func NearestOption(nearest NearestService) ServiceOption {
	return func(s *Service) {
		s.nearest = nearest
	}
}

func GeocoderOption(geocoder planner.Geocoder) ServiceOption {
	return func(s *Service) {
		s.geocoder = geocoder
	}
}

// SessionOption exposes a planner session under /api/session.
func SessionOption(session *planner.Session) ServiceOption {
	return func(s *Service) {
		s.session = session
	}
}

func LoggerOption(logger *zap.SugaredLogger) ServiceOption {
	return func(s *Service) {
		s.Logger = logger
	}
}

type Service struct {
	routes   RouteService
	nearest  NearestService
	geocoder planner.Geocoder
	session  *planner.Session

	Logger *zap.SugaredLogger
}

func New(opts ...ServiceOption) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}

	if s.routes == nil || s.nearest == nil || s.geocoder == nil {
		panic("Missing route, nearest or geocoding backend in api service")
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop().Sugar()
	}
	return s
}

func (s *Service) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.Logger), metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/osrm/route/", s.RouteHandler)
	api.GET("/osrm/nearest/", s.NearestHandler)
	api.GET("/geocode/", s.GeocodeHandler)
	api.GET("/reverse-geocode/", s.ReverseGeocodeHandler)
	if s.session != nil {
		s.registerSession(api.Group("/session"))
	}
	return r
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Service) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.Logger.Infow("api listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}

func (s *Service) RouteHandler(c *gin.Context) {
	q, err := parseRouteQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp, err := s.routes.Route(c.Request.Context(), *q)
	if err != nil {
		s.Logger.Errorw(err.Error(), "action", "Route", "profile", q.Profile)
		s.writeError(c, CodeError{code: 500, msg: "Internal error retrieving trip route."})
		return
	}
	s.writeResponse(c, resp)
}

func (s *Service) NearestHandler(c *gin.Context) {
	p, err := parsePoint(c, "lat", "lng")
	if err != nil {
		s.writeError(c, CodeError{code: 400, msg: "lng and lat required"})
		return
	}
	profile, err := t.ParseTransportMode(c.Query("profile"))
	if err != nil {
		s.writeError(c, CodeError{code: 400, msg: err.Error()})
		return
	}

	resp, err := s.nearest.Nearest(c.Request.Context(), profile, *p, 1)
	if err != nil {
		s.Logger.Errorw(err.Error(), "action", "Nearest", "lat", p.Latitude, "lng", p.Longitude)
		s.writeError(c, CodeError{code: 500, msg: "Internal error snapping to nearest road."})
		return
	}
	s.writeResponse(c, resp)
}

func (s *Service) GeocodeHandler(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		s.writeError(c, CodeError{code: 400, msg: "Address parameter is required"})
		return
	}

	places, err := s.geocoder.Search(c.Request.Context(), address)
	if err != nil {
		s.Logger.Errorw(err.Error(), "address", address, "action", "GeoCode")
		s.writeError(c, CodeError{code: 500, msg: fmt.Sprintf("Internal error geocoding address '%v'.", address)})
		return
	}
	if places == nil {
		places = []t.Place{}
	}
	s.writeResponse(c, places)
}

func (s *Service) ReverseGeocodeHandler(c *gin.Context) {
	p, err := parsePoint(c, "lat", "lng")
	if err != nil {
		s.writeError(c, CodeError{code: 400, msg: "Lat and Lng parameters are required"})
		return
	}

	place, err := s.geocoder.Reverse(c.Request.Context(), *p)
	if err != nil {
		s.Logger.Warnw(err.Error(), "lat", p.Latitude, "lng", p.Longitude, "action", "ReverseGeoCode")
		s.writeError(c, CodeError{code: 500, msg: "Internal error reverse geocoding."})
		return
	}
	s.writeResponse(c, place)
}

func parseRouteQuery(c *gin.Context) (*t.RouteQuery, error) {
	origin, errOrigin := parsePoint(c, "origin_lat", "origin_lng")
	destination, errDest := parsePoint(c, "dest_lat", "dest_lng")
	if errOrigin != nil || errDest != nil {
		return nil, CodeError{code: 400, msg: "All coordinates required"}
	}
	profile, err := t.ParseTransportMode(c.Query("profile"))
	if err != nil {
		return nil, CodeError{code: 400, msg: err.Error()}
	}
	return &t.RouteQuery{
		Origin:      *origin,
		Destination: *destination,
		Profile:     profile,
		Preferences: t.RoutePreferences{
			Tourist:  queryBool(c, "tourist"),
			Climatic: queryBool(c, "climatic"),
		},
	}, nil
}

var errMissingCoordinate = errors.New("missing coordinate")

func parsePoint(c *gin.Context, latKey, lngKey string) (*t.GeoPoint, error) {
	latStr, lngStr := c.Query(latKey), c.Query(lngKey)
	if latStr == "" || lngStr == "" {
		return nil, errMissingCoordinate
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("bad %s %q", latKey, latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("bad %s %q", lngKey, lngStr)
	}
	return &t.GeoPoint{Latitude: lat, Longitude: lng}, nil
}

func queryBool(c *gin.Context, key string) bool {
	b, err := strconv.ParseBool(c.Query(key))
	return err == nil && b
}

func (s *Service) writeError(c *gin.Context, err error) {
	var codeErr CodeError
	if errors.As(err, &codeErr) {
		c.AbortWithStatusJSON(codeErr.code, ErrorResponse{Error: codeErr.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

func (s *Service) writeResponse(c *gin.Context, resp any) {
	c.JSON(http.StatusOK, resp)
}
