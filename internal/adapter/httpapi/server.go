// Package httpapi exposes the investment workflow over a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tokenart/tokenart-backend/internal/adapter/horizon"
	"github.com/tokenart/tokenart-backend/internal/domain"
	"github.com/tokenart/tokenart-backend/internal/usecase/invest"
	"github.com/tokenart/tokenart-backend/internal/usecase/portfolio"
	"github.com/tokenart/tokenart-backend/internal/usecase/purchase"
	"github.com/tokenart/tokenart-backend/internal/usecase/reconcile"
)

// StatusChecker reports current network reachability.
type StatusChecker interface {
	CheckNetworkStatus(ctx context.Context) horizon.NetworkStatus
}

// Funder requests test funds for an account.
type Funder interface {
	Fund(ctx context.Context, identity domain.AccountIdentity) error
}

// Server wires the usecase services into HTTP handlers.
type Server struct {
	Invest    *invest.Service
	Purchase  *purchase.Service
	Portfolio *portfolio.Service
	Reconcile *reconcile.Service
	Wallet    domain.IdentityProvider
	Balances  domain.BalanceReader
	Status    StatusChecker
	Funder    Funder
	AuthToken string
	Log       zerolog.Logger
}

// Router assembles the chi router with logging, panic recovery and bearer
// auth around the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.Log))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(s.AuthToken))

		r.Get("/artworks", s.handleListArtworks)
		r.Get("/artworks/{id}", s.handleGetArtwork)
		r.Post("/artworks/{id}/invest", s.handleInvest)
		r.Post("/artworks/{id}/purchase", s.handlePurchase)

		r.Post("/wallet/connect", s.handleWalletConnect)
		r.Get("/wallet", s.handleWallet)
		r.Get("/wallet/balance", s.handleBalance)
		r.Post("/wallet/fund", s.handleFund)

		r.Get("/portfolio/{identity}", s.handlePortfolio)

		r.Get("/network/status", s.handleNetworkStatus)
		r.Post("/reconcile", s.handleReconcile)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// artworkResponse is one catalog entry with its live funding state.
type artworkResponse struct {
	Artwork       domain.Artwork  `json:"artwork"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	LastInvestor  string          `json:"last_investor,omitempty"`
	IsFullyFunded bool            `json:"is_fully_funded"`
}

func (s *Server) handleListArtworks(w http.ResponseWriter, r *http.Request) {
	listings, err := s.Portfolio.Listings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]artworkResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, artworkResponse{
			Artwork:       l.Artwork,
			TotalInvested: l.Investment.TotalInvested,
			LastInvestor:  string(l.Investment.LastInvestor),
			IsFullyFunded: l.Investment.IsFullyFunded,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetArtwork(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	artwork, err := domain.ArtworkByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := s.Portfolio.InvestmentData(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, artworkResponse{
		Artwork:       *artwork,
		TotalInvested: data.TotalInvested,
		LastInvestor:  string(data.LastInvestor),
		IsFullyFunded: data.IsFullyFunded,
	})
}

type investRequest struct {
	Amount string `json:"amount"`
}

type recordResponse struct {
	ID        string          `json:"id"`
	ArtworkID string          `json:"artwork_id"`
	Account   string          `json:"account"`
	Amount    decimal.Decimal `json:"amount"`
	TxHash    string          `json:"tx_hash"`
	Timestamp time.Time       `json:"timestamp"`
}

func (s *Server) handleInvest(w http.ResponseWriter, r *http.Request) {
	var req investRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, domain.NewValidationError("invalid amount format: %v", err))
		return
	}

	record, err := s.Invest.Invest(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordResponse{
		ID:        record.ID.String(),
		ArtworkID: record.ArtworkID,
		Account:   string(record.Investor),
		Amount:    record.Amount,
		TxHash:    record.TxHash,
		Timestamp: record.Timestamp,
	})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	record, err := s.Purchase.Purchase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordResponse{
		ID:        record.ID.String(),
		ArtworkID: record.ArtworkID,
		Account:   string(record.Buyer),
		Amount:    record.Price,
		TxHash:    record.TxHash,
		Timestamp: record.Timestamp,
	})
}

type walletResponse struct {
	Available bool   `json:"available"`
	Connected bool   `json:"connected"`
	Identity  string `json:"identity,omitempty"`
}

func (s *Server) handleWalletConnect(w http.ResponseWriter, r *http.Request) {
	identity, err := s.Wallet.RequestAccess(r.Context())
	if err != nil {
		writeError(w, domain.NewSigningError(err))
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{Available: true, Connected: true, Identity: string(identity)})
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	available := s.Wallet.IsAvailable(r.Context())
	identity, err := s.Wallet.ActiveIdentity(r.Context())
	if err != nil {
		writeError(w, domain.NewSigningError(err))
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{
		Available: available,
		Connected: identity != "",
		Identity:  string(identity),
	})
}

type balanceResponse struct {
	Identity  string          `json:"identity"`
	Native    decimal.Decimal `json:"native"`
	Available decimal.Decimal `json:"available"`
	Err       string          `json:"error,omitempty"`
}

// handleBalance returns the connected account's native balance and the
// portion left after the fee reserve.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	identity, err := s.Wallet.ActiveIdentity(r.Context())
	if err != nil {
		writeError(w, domain.NewSigningError(err))
		return
	}
	if identity == "" {
		writeError(w, domain.NewValidationError("no wallet session; connect first"))
		return
	}

	balance := s.Balances.NativeBalance(r.Context(), identity)
	writeJSON(w, http.StatusOK, balanceResponse{
		Identity:  string(identity),
		Native:    balance.Native,
		Available: domain.AvailableForInvestment(balance.Native),
		Err:       balance.Err,
	})
}

type fundRequest struct {
	Identity string `json:"identity"`
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}

	if err := s.Funder.Fund(r.Context(), domain.AccountIdentity(req.Identity)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "funded", "identity": req.Identity})
}

type portfolioResponse struct {
	Investments []portfolio.UserInvestment `json:"investments"`
	Purchases   []recordResponse           `json:"purchases"`
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	identity := domain.AccountIdentity(chi.URLParam(r, "identity"))
	if err := domain.ValidateIdentity(identity); err != nil {
		writeError(w, err)
		return
	}

	investments, err := s.Portfolio.UserInvestments(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	purchases, err := s.Portfolio.UserPurchases(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	owned := make([]recordResponse, 0, len(purchases))
	for _, p := range purchases {
		owned = append(owned, recordResponse{
			ID:        p.ID.String(),
			ArtworkID: p.ArtworkID,
			Account:   string(p.Buyer),
			Amount:    p.Price,
			TxHash:    p.TxHash,
			Timestamp: p.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, portfolioResponse{Investments: investments, Purchases: owned})
}

func (s *Server) handleNetworkStatus(w http.ResponseWriter, r *http.Request) {
	status := s.Status.CheckNetworkStatus(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     status.Status,
		"latency_ms": status.Latency.Milliseconds(),
		"endpoint":   status.Endpoint,
	})
}

type reconcileRequest struct {
	Repair bool `json:"repair"`
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.NewValidationError("invalid request body: %v", err))
			return
		}
	}

	report, err := s.Reconcile.Run(r.Context(), req.Repair)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matched":             report.Matched,
		"recovered":           len(report.Recovered),
		"recovered_purchases": len(report.RecoveredPurchases),
		"unparseable":         report.Unparseable,
		"orphaned":            report.Orphaned,
		"repair":              req.Repair,
	})
}
