package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wordlookup/internal/app"
	"github.com/mrlokans/wordlookup/internal/audio"
	"github.com/mrlokans/wordlookup/internal/dictionary"
	"github.com/mrlokans/wordlookup/internal/history"
	"github.com/mrlokans/wordlookup/internal/notify"
	"github.com/mrlokans/wordlookup/internal/render"
	"github.com/mrlokans/wordlookup/internal/session"
)

// LookupController serves the search page and the lookup API. Every request
// runs its own app.Controller against the caller's history.
type LookupController struct {
	client       dictionary.Client
	audio        *audio.Controller
	sessions     *session.Manager
	fallback     history.Storage
	prefetcher   ClipPrefetcher
	defaultWords []string
	dismissAfter time.Duration
}

func NewLookupController(cfg RouterConfig) *LookupController {
	dismissAfter := cfg.NotifyDismissAfter
	if dismissAfter <= 0 {
		dismissAfter = notify.DefaultDismissAfter
	}
	return &LookupController{
		client:       cfg.DictionaryClient,
		audio:        cfg.Audio,
		sessions:     cfg.SessionManager,
		fallback:     cfg.FallbackHistory,
		prefetcher:   cfg.Prefetcher,
		defaultWords: cfg.DefaultWords,
		dismissAfter: dismissAfter,
	}
}

// pageNotice collects the notification a request wants to show. The page
// hides it again after the dismiss delay.
type pageNotice struct {
	message string
}

func (n *pageNotice) Show(message string) { n.message = message }
func (n *pageNotice) Dismiss()            { n.message = "" }

// flow is one request's lookup flow and what it drew.
type flow struct {
	app     *app.Controller
	screen  *render.Screen
	notice  *pageNotice
	history *history.Store
}

func (lc *LookupController) newFlow() *flow {
	f := &flow{
		screen:  render.NewScreen(),
		notice:  &pageNotice{},
		history: history.NewStore(lc.historyStorage()),
	}
	var player app.Audio = noAudio{}
	if lc.audio != nil {
		player = lc.audio
	}
	if lc.prefetcher != nil {
		player = prefetchingAudio{Audio: player, prefetcher: lc.prefetcher}
	}
	f.app = app.New(lc.client, f.history, f.screen, player, f.notice, app.Options{
		DefaultWords: lc.defaultWords,
	})
	return f
}

func (lc *LookupController) historyStorage() history.Storage {
	if lc.sessions != nil {
		return lc.sessions.Storage()
	}
	if lc.fallback != nil {
		return lc.fallback
	}
	return discardStorage{}
}

// Index renders the search page seeded with the latest history word or a
// random example word.
func (lc *LookupController) Index(c *gin.Context) {
	f := lc.newFlow()
	word, _, _ := f.app.Start(c.Request.Context())
	lc.renderPage(c, f, word)
}

// Search runs the submit flow for the q parameter, from a query string or a
// posted form.
func (lc *LookupController) Search(c *gin.Context) {
	query := c.Query("q")
	if c.Request.Method == http.MethodPost {
		query = c.PostForm("q")
	}

	f := lc.newFlow()
	ctx := c.Request.Context()
	f.screen.ShowHistory(render.RenderHistory(f.history.Load(ctx)))
	_, err := f.app.Submit(ctx, query)
	if wantsJSON(c) {
		lc.respondJSON(c, f, strings.TrimSpace(query), err)
		return
	}
	if errors.Is(err, dictionary.ErrValidation) {
		// Invalid input leaves the previous content alone; on a fresh page
		// that is the empty state.
		f.screen.ShowResult(render.RenderEmptyState())
	}
	lc.renderPage(c, f, strings.TrimSpace(query))
}

func (lc *LookupController) renderPage(c *gin.Context, f *flow, query string) {
	snap := f.screen.Snapshot()
	data := gin.H{
		"Query":          query,
		"Result":         snap.Result,
		"History":        snap.History,
		"Examples":       render.RenderExamples(f.app.DefaultWords()),
		"Error":          f.notice.message,
		"DismissAfterMs": lc.dismissAfter.Milliseconds(),
		"CSRFToken":      session.CSRFToken(c),
	}
	if lc.audio != nil {
		data["Audio"] = lc.audio.Button()
	}
	c.HTML(http.StatusOK, "index", data)
}

// LookupResponse is the JSON form of one lookup flow.
type LookupResponse struct {
	Word    string        `json:"word"`
	Result  *render.Node  `json:"result"`
	History *render.Node  `json:"history"`
	Audio   *audio.Button `json:"audio,omitempty"`
	Error   string        `json:"error,omitempty"`
	Kind    string        `json:"kind,omitempty"`
}

// Lookup runs the submit flow and returns the display trees as JSON.
func (lc *LookupController) Lookup(c *gin.Context) {
	f := lc.newFlow()
	ctx := c.Request.Context()
	f.screen.ShowHistory(render.RenderHistory(f.history.Load(ctx)))

	word := strings.TrimSpace(c.Param("word"))
	_, err := f.app.Submit(ctx, word)
	lc.respondJSON(c, f, word, err)
}

func (lc *LookupController) respondJSON(c *gin.Context, f *flow, word string, err error) {
	snap := f.screen.Snapshot()
	resp := LookupResponse{
		Word:    word,
		Result:  snap.Result,
		History: snap.History,
	}
	if lc.audio != nil {
		button := lc.audio.Button()
		resp.Audio = &button
	}
	if err != nil {
		resp.Error = f.notice.message
		resp.Kind = dictionary.KindName(err)
		if resp.Result == nil {
			resp.Result = render.RenderEmptyState()
		}
	}
	c.JSON(statusForLookup(err), resp)
}

// History returns the caller's search history.
func (lc *LookupController) History(c *gin.Context) {
	store := history.NewStore(lc.historyStorage())
	c.JSON(http.StatusOK, gin.H{
		"history": store.Load(c.Request.Context()),
	})
}

func statusForLookup(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dictionary.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, dictionary.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dictionary.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}

type noAudio struct{}

func (noAudio) Stop()                 {}
func (noAudio) Load(word, url string) {}

// prefetchingAudio queues a download of every clip a lookup points the
// player at.
type prefetchingAudio struct {
	app.Audio
	prefetcher ClipPrefetcher
}

func (p prefetchingAudio) Load(word, url string) {
	p.Audio.Load(word, url)
	if url != "" {
		p.prefetcher.Prefetch(url)
	}
}

// discardStorage keeps nothing; history then lasts for one request.
type discardStorage struct{}

func (discardStorage) Get(_ context.Context, _ string) (string, error) {
	return "", errNoStorage
}

func (discardStorage) Put(_ context.Context, _, _ string) error {
	return errNoStorage
}

var errNoStorage = errors.New("no history storage configured")

var _ history.Storage = discardStorage{}
