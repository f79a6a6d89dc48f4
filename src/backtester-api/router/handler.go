package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/mean-reversion-trader/src/backtester"
	apimodels "github.com/jiaming2012/mean-reversion-trader/src/backtester-api/models"
	"github.com/jiaming2012/mean-reversion-trader/src/data"
	"github.com/jiaming2012/mean-reversion-trader/src/models"
)

var (
	provider data.IHistoricalDataProvider
	runs     *apimodels.RunCache
	decoder  = newQueryDecoder()
)

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("SetResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := models.NewErrorDTO(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		return encodeErr
	}

	return nil
}

// statusCode maps configuration and input problems to 400. Everything else, including
// a strategy/engine desync, is a server side failure.
func statusCode(err error) int {
	if errors.Is(err, models.ErrInvalidConfiguration) || errors.Is(err, models.ErrInvalidInput) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func runBacktest(ctx context.Context, req *apimodels.BacktestRequest) (*apimodels.BacktestResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var candles models.Candles
	if len(req.Candles) > 0 {
		var err error
		if candles, err = req.Candles.ToModel(); err != nil {
			return nil, fmt.Errorf("candles: %w", err)
		}
	} else {
		rng, err := req.Range()
		if err != nil {
			return nil, err
		}

		if provider == nil {
			return nil, fmt.Errorf("no market data provider configured")
		}

		if candles, err = provider.GetHistoricalData(ctx, req.Symbol, rng.From, rng.To, rng.Interval); err != nil {
			return nil, fmt.Errorf("failed to fetch candles: %w", err)
		}
	}

	engine, err := backtester.NewEngine(req.Strategy)
	if err != nil {
		return nil, err
	}

	result, err := engine.Run(req.Symbol, candles)
	if err != nil {
		return nil, err
	}

	summary, err := models.NewBacktestSummary(result)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize backtest: %w", err)
	}

	resp := apimodels.NewBacktestResponse(result, summary)
	runs.Store(resp)

	log.Infof("backtest %s: %s, %d bars, %d trades, total profit %.4f", resp.RunID, req.Symbol, len(result.Rows), len(result.Trades), result.TotalProfit)

	return resp, nil
}

func handleCreateBacktest(w http.ResponseWriter, r *http.Request) {
	var req apimodels.BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse("handleCreateBacktest: failed to decode request", http.StatusBadRequest, err, w)
		return
	}

	resp, err := runBacktest(r.Context(), &req)
	if err != nil {
		setErrorResponse("handleCreateBacktest: failed to run backtest", statusCode(err), err, w)
		return
	}

	if err := setResponse(resp, w); err != nil {
		log.Errorf("handleCreateBacktest: failed to set response: %v", err)
	}
}

func handleGetBacktest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setErrorResponse("handleGetBacktest: failed to parse query", http.StatusBadRequest, err, w)
		return
	}

	var query apimodels.BacktestQuery
	if err := decoder.Decode(&query, r.Form); err != nil {
		setErrorResponse("handleGetBacktest: failed to decode query", http.StatusBadRequest, err, w)
		return
	}

	req := query.ToRequest(mux.Vars(r)["symbol"])

	resp, err := runBacktest(r.Context(), req)
	if err != nil {
		setErrorResponse("handleGetBacktest: failed to run backtest", statusCode(err), err, w)
		return
	}

	if err := setResponse(resp, w); err != nil {
		log.Errorf("handleGetBacktest: failed to set response: %v", err)
	}
}

func handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		setErrorResponse("handleGetRun: failed to parse run id", http.StatusBadRequest, err, w)
		return
	}

	resp, found := runs.Get(runID)
	if !found {
		setErrorResponse("handleGetRun: run not found", http.StatusNotFound, fmt.Errorf("run %s not found", runID), w)
		return
	}

	if err := setResponse(resp, w); err != nil {
		log.Errorf("handleGetRun: failed to set response: %v", err)
	}
}

func SetupHandler(router *mux.Router, p data.IHistoricalDataProvider) {
	provider = p
	runs = apimodels.NewRunCache(30 * time.Minute)

	router.HandleFunc("", handleCreateBacktest).Methods(http.MethodPost)
	router.HandleFunc("/runs/{id}", handleGetRun).Methods(http.MethodGet)
	router.HandleFunc("/{symbol}", handleGetBacktest).Methods(http.MethodGet)
}
