package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/anhprgm/dev-info/internal/domain"
	"github.com/anhprgm/dev-info/internal/ports"
)

// Backend is what the API serves. History and ClearHistory are best effort
// and never fail; RunBenchmark reports failures.
type Backend interface {
	Device(ctx context.Context) (domain.DeviceInfo, error)
	Hardware(ctx context.Context) (domain.HardwareInfo, error)
	Battery(ctx context.Context) (domain.BatteryInfo, error)
	Network(ctx context.Context) (domain.NetworkInfo, error)
	Sensors(ctx context.Context) (domain.SensorInfo, error)
	Apps(ctx context.Context) (domain.AppManagerInfo, error)
	AppDetail(ctx context.Context, name string) (domain.AppInfo, error)
	Display(ctx context.Context) (domain.DisplayInfo, error)
	Camera(ctx context.Context) (domain.CameraInfo, error)
	Monitoring(ctx context.Context) (domain.MonitoringInfo, error)

	History() []domain.Sample
	ClearHistory()
	RunBenchmark(ctx context.Context) (domain.BenchmarkResult, error)
}

func NewHandler(b Backend, obs ports.Observability) http.Handler {
	h := &handlers{b: b, obs: obs}

	m := mux.NewRouter()
	m.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		renderJSON(w, map[string]interface{}{"success": true})
	}).Methods("GET")

	m.HandleFunc("/info", info(h, b.Device)).Methods("GET")
	m.HandleFunc("/info/hardware", info(h, b.Hardware)).Methods("GET")
	m.HandleFunc("/info/battery", info(h, b.Battery)).Methods("GET")
	m.HandleFunc("/info/network", info(h, b.Network)).Methods("GET")
	m.HandleFunc("/info/sensors", info(h, b.Sensors)).Methods("GET")
	m.HandleFunc("/info/apps", info(h, b.Apps)).Methods("GET")
	m.HandleFunc("/info/apps/{package}", func(w http.ResponseWriter, r *http.Request) {
		app, err := b.AppDetail(r.Context(), mux.Vars(r)["package"])
		if errors.Is(err, domain.ErrAppNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			h.fail(w, "app_detail_failed", err)
			return
		}
		renderJSON(w, app)
	}).Methods("GET")
	m.HandleFunc("/info/display", info(h, b.Display)).Methods("GET")
	m.HandleFunc("/info/camera", info(h, b.Camera)).Methods("GET")
	m.HandleFunc("/monitoring", info(h, b.Monitoring)).Methods("GET")

	m.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		renderJSON(w, b.History())
	}).Methods("GET")
	m.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		b.ClearHistory()
		renderJSON(w, map[string]interface{}{
			"success":     true,
			"description": "history cleared",
		})
	}).Methods("DELETE")

	m.HandleFunc("/benchmark", func(w http.ResponseWriter, r *http.Request) {
		res, err := b.RunBenchmark(r.Context())
		if err != nil {
			h.fail(w, "benchmark_failed", err)
			return
		}
		renderJSON(w, res)
	}).Methods("POST")

	return cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "DELETE"},
	}).Handler(m)
}

type handlers struct {
	b   Backend
	obs ports.Observability
}

func info[T any](h *handlers, get func(context.Context) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := get(r.Context())
		if err != nil {
			h.fail(w, "info_read_failed", err)
			return
		}
		renderJSON(w, v)
	}
}

func (h *handlers) fail(w http.ResponseWriter, msg string, err error) {
	if h.obs != nil {
		h.obs.LogError(msg, err)
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":     false,
		"description": err.Error(),
	})
}

func renderJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(data)
}

// Server runs the API on its own listener.
type Server struct {
	srv  *http.Server
	obs  ports.Observability
	addr net.Addr
}

func NewServer(addr string, b Backend, obs ports.Observability) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(b, obs),
			ReadHeaderTimeout: 5 * time.Second,
		},
		obs: obs,
	}
}

// Start binds the listener synchronously so address errors surface to the
// caller, then serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.addr = lis.Addr()
	go func() {
		if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) && s.obs != nil {
			s.obs.LogError("http_api_exited", err)
		}
	}()
	return nil
}

// Addr is the bound address once Start has returned.
func (s *Server) Addr() string {
	if s.addr == nil {
		return s.srv.Addr
	}
	return s.addr.String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
