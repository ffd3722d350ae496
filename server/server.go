// Package server exposes projections, stock prices and exchange rates over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/fx"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RatesSource returns the current exchange rates. *fx.Source is a RatesSource.
type RatesSource interface {
	Rates(ctx context.Context) (fx.Rates, error)
}

// Server is the HTTP handler of the networth API.
type Server struct {
	prices networth.PriceSource
	rates  RatesSource
	log    logrus.FieldLogger
	now    func() time.Time
	router *mux.Router
}

// New returns a Server looking up prices and rates in the given sources.
func New(prices networth.PriceSource, rates RatesSource, log logrus.FieldLogger) *Server {
	s := &Server{prices: prices, rates: rates, log: log, now: time.Now}
	r := mux.NewRouter()
	r.Use(s.logging, cors)
	r.HandleFunc("/stock-price", s.handleStockPrice).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/projection", s.handleProjection).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/summary", s.handleSummary).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/rates", s.handleRates).Methods(http.MethodGet, http.MethodOptions)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// Refresher refreshes cached data. *fx.Source is a Refresher.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Schedule starts calling r.Refresh on the cron spec (e.g. "@hourly") until
// the returned cron is stopped.
func Schedule(spec string, r Refresher, log logrus.FieldLogger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := r.Refresh(ctx); err != nil {
			log.WithError(err).Warn("scheduled refresh failed")
			return
		}
		log.Debug("scheduled refresh done")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// ListenAndServe serves h on addr until ctx is done, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
