package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/langaas500/Hvemistua/internal/game"
	"github.com/langaas500/Hvemistua/pkg/realtime"
)

const requestTimeout = 15 * time.Second

// API serves the session's JSON action surface.
type API struct {
	live *game.Live
	now  func() time.Time
}

func NewAPI(live *game.Live) *API {
	return &API{live: live, now: func() time.Time { return time.Now().UTC() }}
}

// RegisterRoutes mounts the action API under /api. The stream route is
// long-lived and sits outside the request timeout.
func (h *API) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/stream", h.stream)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/state", h.state)
			r.Post("/join", h.join)
			r.Post("/leave", h.leave)
			r.Post("/avatar", h.setAvatar)
			r.Post("/settings", h.setSettings)
			r.Post("/validate", h.validate)
			r.Post("/mode", h.setMode)
			r.Post("/start", h.start)
			r.Post("/vote", h.vote)
			r.Post("/end-voting", h.endVoting)
			r.Post("/next", h.next)
			r.Post("/next-now", h.nextNow)
			r.Post("/pause", h.pause)
			r.Post("/resume", h.resume)
			r.Post("/reset-lobby", h.resetLobby)
			r.Post("/reset", h.reset)
			r.Post("/checkout", h.createCheckout)
			r.Post("/checkout/{id}/paid", h.checkoutPaid)
			r.Post("/checkout/{id}/canceled", h.checkoutCanceled)
		})
	})
}

type tokenRequest struct {
	Token string `json:"token"`
}

// act runs one session action and answers with the envelope and the fresh
// snapshot. Successful actions are published to stream subscribers.
func (h *API) act(w http.ResponseWriter, r *http.Request, name string, fn func(now time.Time, resp *envelope) error) {
	now := h.now()
	resp := envelope{Success: true}
	if err := fn(now, &resp); err != nil {
		if !errors.Is(err, game.ErrAlreadyVoted) {
			gerr := game.AsError(err)
			if gerr.Kind == game.KindInternal {
				log.Printf("[api] %s: %v", name, err)
			}
			writeError(w, gerr)
			return
		}
		resp.Notice = string(game.CodeAlreadyVoted)
	} else {
		h.live.Publish(realtime.EventState)
	}
	snap := h.live.Session().Snapshot(now)
	resp.State = &snap
	writeJSON(w, http.StatusOK, resp)
}

func (h *API) state(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	s := h.live.Session()
	if s.Tick(now) {
		h.live.Publish(realtime.EventState)
	}
	writeJSON(w, http.StatusOK, s.Snapshot(now))
}

func (h *API) join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	h.act(w, r, "join", func(_ time.Time, resp *envelope) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		token, avatarID, err := h.live.Session().Join(req.Name)
		if err != nil {
			return err
		}
		resp.Token, resp.AvatarID = token, avatarID
		log.Printf("[api] join: %d players", len(h.live.Session().Players()))
		return nil
	})
}

func (h *API) leave(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	h.act(w, r, "leave", func(time.Time, *envelope) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		h.live.Session().Leave(req.Token)
		return nil
	})
}

func (h *API) setAvatar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		AvatarID string `json:"avatarId"`
	}
	h.act(w, r, "avatar", func(_ time.Time, resp *envelope) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		if err := h.live.Session().SetAvatar(req.Token, req.AvatarID); err != nil {
			return err
		}
		resp.AvatarID = req.AvatarID
		return nil
	})
}

func (h *API) setSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tone        string `json:"tone"`
		CouplesSafe bool   `json:"couplesSafe"`
	}
	h.act(w, r, "settings", func(time.Time, *envelope) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		return h.live.Session().SetSettings(req.Tone, req.CouplesSafe)
	})
}

func (h *API) validate(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, game.AsError(err))
		return
	}
	info := h.live.Session().ValidateToken(req.Token)
	writeJSON(w, http.StatusOK, envelope{
		Success:  true,
		Valid:    &info.Valid,
		Name:     info.Name,
		AvatarID: info.AvatarID,
	})
}

func (h *API) setMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	h.act(w, r, "mode", func(time.Time, *envelope) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		return h.live.Session().SetGameMode(req.Mode)
	})
}

func (h *API) start(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "start", func(now time.Time, _ *envelope) error {
		if err := h.live.Session().Start(now); err != nil {
			return err
		}
		log.Printf("[api] start: %d players", len(h.live.Session().Players()))
		return nil
	})
}

func (h *API) vote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		VotedFor string `json:"votedFor"`
	}
	h.act(w, r, "vote", func(time.Time, *envelope) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		return h.live.Session().SubmitVote(req.Token, req.VotedFor)
	})
}

func (h *API) endVoting(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "end-voting", func(now time.Time, _ *envelope) error {
		res, err := h.live.Session().EndVoting(now)
		if err != nil {
			return err
		}
		if res.Reroll != nil {
			log.Printf("[api] end-voting: %s reroll %s -> %s", res.Reroll.Reason, res.Reroll.Original, res.Reroll.Final)
		}
		return nil
	})
}

func (h *API) next(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "next", func(now time.Time, _ *envelope) error {
		return h.live.Session().NextQuestion(now)
	})
}

func (h *API) nextNow(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "next-now", func(now time.Time, _ *envelope) error {
		return h.live.Session().NextQuestionNow(now)
	})
}

func (h *API) pause(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "pause", func(now time.Time, _ *envelope) error {
		return h.live.Session().Pause(now)
	})
}

func (h *API) resume(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "resume", func(now time.Time, _ *envelope) error {
		return h.live.Session().Resume(now)
	})
}

func (h *API) resetLobby(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "reset-lobby", func(time.Time, *envelope) error {
		h.live.Session().ResetToLobby()
		return nil
	})
}

func (h *API) reset(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "reset", func(time.Time, *envelope) error {
		h.live.Session().ResetGame()
		h.live.Publish(realtime.EventReset)
		log.Printf("[api] reset: roster cleared")
		return nil
	})
}

func (h *API) createCheckout(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "checkout", func(now time.Time, resp *envelope) error {
		c, err := h.live.Session().CreateCheckout(now)
		if err != nil {
			return err
		}
		resp.CheckoutID = c.ID
		log.Printf("[checkout] open: %s", c.ID)
		return nil
	})
}

func (h *API) checkoutPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.act(w, r, "checkout paid", func(now time.Time, resp *envelope) error {
		if err := h.live.Session().MarkPaid(id, now); err != nil {
			return err
		}
		resp.CheckoutID = id
		log.Printf("[checkout] paid: %s until %s", id, h.live.Session().UnlockedUntil().Format(time.RFC3339))
		return nil
	})
}

func (h *API) checkoutCanceled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.act(w, r, "checkout canceled", func(now time.Time, resp *envelope) error {
		if err := h.live.Session().MarkCanceled(id, now); err != nil {
			return err
		}
		resp.CheckoutID = id
		log.Printf("[checkout] canceled: %s", id)
		return nil
	})
}
