// Package server exposes the pricing engine over HTTP for tools that want
// prices without shelling out to the CLI.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/contactkeval/gridpricer/internal/logger"
	"github.com/contactkeval/gridpricer/internal/pde"
)

type Server struct {
	router *mux.Router
}

func New() *Server {
	s := &Server{router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/price", s.handlePrice).Methods(http.MethodPost)
}

// Handler returns the routing tree, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	logger.Infof("pricing server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type barrierSpec struct {
	Level  float64 `json:"level"`
	Type   string  `json:"type"`
	Rebate float64 `json:"rebate,omitempty"`
}

type gridSpec struct {
	SMax       float64 `json:"smax,omitempty"`
	SpaceSteps int     `json:"space_steps,omitempty"`
	TimeSteps  int     `json:"time_steps,omitempty"`
}

type priceRequest struct {
	Kind     string       `json:"kind,omitempty"` // call (default) or put
	Spot     float64      `json:"spot"`
	Strike   float64      `json:"strike"`
	Rate     float64      `json:"rate"`
	Vol      float64      `json:"vol"`
	Maturity float64      `json:"maturity"`
	Barrier  *barrierSpec `json:"barrier,omitempty"`
	Grid     gridSpec     `json:"grid,omitempty"`
}

type priceResponse struct {
	RequestID      string  `json:"request_id"`
	Price          float64 `json:"price"`
	SanitizedNodes int     `json:"sanitized_nodes,omitempty"`
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()

	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Debugf("[%s] bad request body: %v", reqID, err)
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	kind := pde.OptionKind(req.Kind)
	if req.Kind == "" {
		kind = pde.Call
	}
	mkt := pde.Market{
		Spot:     req.Spot,
		Strike:   req.Strike,
		Rate:     req.Rate,
		Vol:      req.Vol,
		Maturity: req.Maturity,
	}
	spec := pde.GridSpec{
		SMax:       req.Grid.SMax,
		SpaceSteps: req.Grid.SpaceSteps,
		TimeSteps:  req.Grid.TimeSteps,
	}
	if spec.SpaceSteps == 0 {
		spec.SpaceSteps = pde.DefaultGridSpec.SpaceSteps
	}
	if spec.TimeSteps == 0 {
		spec.TimeSteps = pde.DefaultGridSpec.TimeSteps
	}

	var bar *pde.Barrier
	if req.Barrier != nil {
		bar = &pde.Barrier{
			Level:  req.Barrier.Level,
			Type:   pde.BarrierType(req.Barrier.Type),
			Rebate: req.Barrier.Rebate,
		}
	}

	logger.Infof("[%s] price request kind=%s spot=%.4f strike=%.4f", reqID, kind, mkt.Spot, mkt.Strike)

	res, err := pde.Solve(mkt, kind, bar, spec)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pde.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		logger.Errorf("[%s] solve failed: %v", reqID, err)
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(priceResponse{
		RequestID:      reqID,
		Price:          res.Price,
		SanitizedNodes: res.Sanitized,
	})
}
