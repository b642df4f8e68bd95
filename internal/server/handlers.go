package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/obscura/pkg/errors"
	"github.com/matzehuels/obscura/pkg/grid"
	"github.com/matzehuels/obscura/pkg/lyrics"
	"github.com/matzehuels/obscura/pkg/session"
)

const (
	maxBodyBytes = errors.MaxLyricBytes + 4<<10

	// maxLines caps the timed lines of one session.
	maxLines = 2000
	// maxReplay caps onsets and frame offsets, which bounds replay work.
	maxReplay = 2 * time.Hour
)

// createRequest is the body of POST /sessions. LRC wins over Lines, which
// wins over Text.
type createRequest struct {
	Text   string        `json:"text"`
	LRC    string        `json:"lrc"`
	Lines  []lineRequest `json:"lines"`
	Pacing string        `json:"pacing"`
	Speed  float64       `json:"speed"`
	Seed   int64         `json:"seed"`
}

type lineRequest struct {
	Text    string `json:"text"`
	OnsetMS int64  `json:"onset_ms"`
}

type sessionResponse struct {
	ID        string        `json:"id"`
	Timed     bool          `json:"timed"`
	Pacing    lyrics.Pacing `json:"pacing,omitempty"`
	Speed     float64       `json:"speed,omitempty"`
	Seed      int64         `json:"seed"`
	Units     []lyrics.Unit `json:"units"`
	TotalMS   int64         `json:"total_ms"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

type frameResponse struct {
	AtMS     int64         `json:"at_ms"`
	Unit     *lyrics.Unit  `json:"unit"`
	Complete bool          `json:"complete"`
	Placed   int           `json:"placed_words"`
	Grid     grid.Snapshot `json:"grid"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body"))
		return
	}

	params, err := req.params()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if params.Seed == 0 {
		params.Seed = s.now().UnixMilli()
	}

	sess := session.New(params, s.opts.SessionTTL)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	s.logger.Info("session created", "id", sess.ID, "timed", sess.Timed(), "seed", sess.Seed)
	writeJSON(w, http.StatusCreated, describe(sess))
}

// params validates the request and converts it into session parameters.
func (req *createRequest) params() (session.Params, error) {
	p := session.Params{Seed: req.Seed}

	switch {
	case req.LRC != "":
		if err := errors.ValidateLyricText(req.LRC); err != nil {
			return p, err
		}
		p.Lines = lyrics.ParseLRC(req.LRC)
		if len(p.Lines) == 0 {
			return p, errors.New(errors.ErrCodeInvalidFormat, "lrc contains no timestamped lines")
		}
	case len(req.Lines) > 0:
		if len(req.Lines) > maxLines {
			return p, errors.New(errors.ErrCodeInvalidInput, "too many lines (max %d)", maxLines)
		}
		texts := make([]string, 0, len(req.Lines))
		for _, l := range req.Lines {
			if l.OnsetMS < 0 || l.OnsetMS > maxReplay.Milliseconds() {
				return p, errors.New(errors.ErrCodeInvalidInput, "onset_ms must be between 0 and %d", maxReplay.Milliseconds())
			}
			texts = append(texts, l.Text)
			p.Lines = append(p.Lines, lyrics.Line{Text: l.Text, Onset: time.Duration(l.OnsetMS) * time.Millisecond})
		}
		if err := errors.ValidateLyricText(strings.Join(texts, "\n")); err != nil {
			return p, err
		}
	default:
		if err := errors.ValidateLyricText(req.Text); err != nil {
			return p, err
		}
		p.Text = req.Text

		p.Pacing = lyrics.PaceLine
		if req.Pacing != "" {
			pacing, err := lyrics.ParsePacing(req.Pacing)
			if err != nil {
				return p, errors.Wrap(errors.ErrCodeInvalidPacing, err, "invalid pacing")
			}
			p.Pacing = pacing
		}

		p.Speed = 1
		if req.Speed != 0 {
			if err := errors.ValidateSpeed(req.Speed); err != nil {
				return p, err
			}
			p.Speed = req.Speed
		}
	}
	return p, nil
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, describe(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := session.ValidateID(id); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid session id"))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	s.players.drop(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	at := s.now().Sub(sess.CreatedAt)
	if v := r.URL.Query().Get("at"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "at must be a non-negative integer of milliseconds"))
			return
		}
		at = time.Duration(min(n, maxReplay.Milliseconds())) * time.Millisecond
	}
	// bound replay work to the schedule plus one refresh window
	at = min(at, sess.Scheduler().TotalDuration()+time.Minute, maxReplay)

	resp, err := s.players.frame(r.Context(), sess, at)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeTimeout, err, "frame replay interrupted"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLyrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if err := errors.ValidateQuery(q); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.lookup == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "lyrics lookup is disabled"))
		return
	}
	res, err := s.lookup.Search(r.Context(), q, false)
	if err != nil {
		s.writeError(w, r, lookupError(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// loadSession resolves the {id} parameter, writing an error response and
// returning false when it cannot.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	if err := session.ValidateID(id); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid session id"))
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "load session"))
		return nil, false
	}
	if sess == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id))
		return nil, false
	}
	return sess, true
}

func describe(sess *session.Session) sessionResponse {
	sched := sess.Scheduler()
	resp := sessionResponse{
		ID:        sess.ID,
		Timed:     sess.Timed(),
		Seed:      sess.Seed,
		Units:     sched.Units(),
		TotalMS:   sched.TotalDuration().Milliseconds(),
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	}
	if !resp.Timed {
		resp.Pacing = sess.Pacing
		resp.Speed = sess.Speed
	}
	return resp
}
