package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bandlife/internal/auth"
	"bandlife/internal/config"
	"bandlife/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

type UserContext struct {
	UserID string
	Email  string
	Token  string
}

type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	auth *auth.SupabaseClient
	game *game.Service
	mux  *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, authClient *auth.SupabaseClient, gameSvc *game.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:  cfg,
		log:  logger,
		auth: authClient,
		game: gameSvc,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/game", s.handleCurrentGame)
			r.Post("/game", s.handleStartGame)
			r.Get("/game/{id}", s.handleGameByID)
			r.Post("/game/retire", s.handleRetire)

			r.Post("/actions/work", s.handleWork)
			r.Post("/actions/rest", s.handleRest)
			r.Post("/actions/practice", s.handlePractice)
			r.Post("/actions/perform", s.handlePerform)
			r.Post("/actions/adventure", s.handleAdventure)

			r.Get("/venues", s.handleVenues)
			r.Get("/shop/offers", s.handleShopOffers)
			r.Post("/shop/purchase", s.handlePurchase)
			r.Post("/shop/repair", s.handleRepair)
			r.Post("/shop/leave", s.handleLeaveShop)

			r.Post("/sync/replay", s.handleSyncReplay)
		})
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.auth.VerifyAccessToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, UserContext{
			UserID: user.ID,
			Email:  user.Email,
			Token:  token,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) (UserContext, error) {
	v := ctx.Value(userContextKey)
	user, ok := v.(UserContext)
	if !ok || user.UserID == "" {
		return UserContext{}, errors.New("missing auth context")
	}
	return user, nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.SignUp(r.Context(), strings.TrimSpace(in.Email), strings.TrimSpace(in.Password))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.Login(r.Context(), strings.TrimSpace(in.Email), strings.TrimSpace(in.Password))
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCurrentGame(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	g, err := s.game.CurrentGame(r.Context(), user.UserID)
	if errors.Is(err, game.ErrNoActiveGame) {
		writeJSON(w, http.StatusOK, map[string]any{"game": nil})
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g})
}

func (s *Server) handleGameByID(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	g, err := s.game.GameByID(r.Context(), user.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Name     string `json:"name"`
		Position string `json:"position"`
		Image    string `json:"image"`
		Power    int    `json:"power"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.game.StartGame(r.Context(), game.StartGameInput{
		OwnerID:  user.UserID,
		Name:     in.Name,
		Position: in.Position,
		Image:    in.Image,
		Power:    in.Power,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"game": g})
}

func (s *Server) handleRetire(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID string `json:"game_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := s.game.Retire(r.Context(), user.UserID, in.GameID, idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g})
}

func (s *Server) handleWork(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID string `json:"game_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, sum, err := s.game.Work(r.Context(), user.UserID, in.GameID, idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g, "work": sum})
}

func (s *Server) handleRest(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID string `json:"game_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, sum, err := s.game.Rest(r.Context(), user.UserID, in.GameID, idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g, "rest": sum})
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID string `json:"game_id"`
		Score  int    `json:"score"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, sum, err := s.game.Practice(r.Context(), user.UserID, in.GameID, idempotencyKey(r), in.Score)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g, "practice": sum})
}

func (s *Server) handlePerform(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID string `json:"game_id"`
		Venue  string `json:"venue"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, sum, err := s.game.Perform(r.Context(), user.UserID, in.GameID, idempotencyKey(r), in.Venue)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g, "performance": sum})
}

func (s *Server) handleAdventure(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID string `json:"game_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, sum, err := s.game.Adventure(r.Context(), user.UserID, in.GameID, idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g, "adventure": sum})
}

func (s *Server) handleVenues(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	all := r.URL.Query().Get("all") == "1"
	if all {
		writeJSON(w, http.StatusOK, map[string]any{"venues": game.Venues})
		return
	}
	g, err := s.game.CurrentGame(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"venues": game.VenuesForFame(g.Fame)})
}

func (s *Server) handleShopOffers(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	member := r.URL.Query().Get("member")
	if member == "" {
		member = "main"
	}
	offers, err := s.game.ShopOffersFor(r.Context(), user.UserID, r.URL.Query().Get("game_id"), member)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID    string `json:"game_id"`
		Member    string `json:"member"`
		ItemName  string `json:"item_name"`
		ItemPower int    `json:"item_power"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, sum, err := s.game.Purchase(r.Context(), user.UserID, in.GameID, idempotencyKey(r), in.Member, game.Instrument{
		Name:  in.ItemName,
		Power: in.ItemPower,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g, "purchase": sum})
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID string `json:"game_id"`
		Member string `json:"member"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, sum, err := s.game.Repair(r.Context(), user.UserID, in.GameID, idempotencyKey(r), in.Member)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g, "repair": sum})
}

func (s *Server) handleLeaveShop(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		GameID string `json:"game_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, t, err := s.game.LeaveShop(r.Context(), user.UserID, in.GameID, idempotencyKey(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"game": g, "time": int(t)})
}

func (s *Server) handleSyncReplay(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Commands []game.ReplayCommand `json:"commands"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	results := s.game.ReplaySync(r.Context(), user.UserID, in.Commands)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrNoActiveGame):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrDuplicateIdempotency), errors.Is(err, game.ErrTxConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInvalidInput),
		errors.Is(err, game.ErrClosed),
		errors.Is(err, game.ErrLowMental),
		errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrNoItem),
		errors.Is(err, game.ErrItemIntact),
		errors.Is(err, game.ErrEmptySlot),
		errors.Is(err, game.ErrInvalidMember),
		errors.Is(err, game.ErrTeamFull),
		errors.Is(err, game.ErrVenueUnknown),
		errors.Is(err, game.ErrBadOffer),
		errors.Is(err, game.ErrAdventureDone):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrVenueLocked):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
