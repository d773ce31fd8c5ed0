package http

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mrlokans/wordlookup/internal/audio"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsSendBuffer   = 16
)

// AudioController exposes the pronunciation player: plain endpoints to drive
// it and a websocket that streams every button change.
type AudioController struct {
	audio    *audio.Controller
	upgrader websocket.Upgrader
}

func NewAudioController(controller *audio.Controller) *AudioController {
	return &AudioController{
		audio: controller,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type PlayRequest struct {
	URL  string `json:"url" binding:"required"`
	Word string `json:"word"`
}

// Play starts the given clip. Playback failures are not HTTP errors; they
// show up in the returned button state.
func (a *AudioController) Play(c *gin.Context) {
	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "url is required")
		return
	}

	if req.Word != "" {
		current := a.audio.Button()
		if current.Word != req.Word || current.URL != req.URL {
			a.audio.Load(req.Word, req.URL)
		}
	}
	if err := a.audio.Play(c.Request.Context(), req.URL); err != nil {
		log.Printf("Audio play request for %q failed: %v", req.Word, err)
	}
	c.JSON(http.StatusOK, a.audio.Button())
}

// Toggle is the audio button: stop while playing, play otherwise.
func (a *AudioController) Toggle(c *gin.Context) {
	if err := a.audio.Toggle(c.Request.Context()); err != nil {
		log.Printf("Audio toggle failed: %v", err)
	}
	c.JSON(http.StatusOK, a.audio.Button())
}

func (a *AudioController) Stop(c *gin.Context) {
	a.audio.Stop()
	c.JSON(http.StatusOK, a.audio.Button())
}

func (a *AudioController) State(c *gin.Context) {
	c.JSON(http.StatusOK, a.audio.Button())
}

// Stream upgrades to a websocket and pushes the button state, first the
// current one and then every change, until the client goes away.
func (a *AudioController) Stream(c *gin.Context) {
	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Audio websocket upgrade failed: %v", err)
		return
	}

	client := newStateClient(conn)
	client.push(a.audio.Button())
	unsubscribe := a.audio.Subscribe(client.push)

	go client.writeLoop()
	client.readLoop()

	unsubscribe()
	client.close()
}

// stateClient is one websocket subscriber. push never blocks; a slow client
// misses intermediate states but always gets later ones.
type stateClient struct {
	conn    *websocket.Conn
	updates chan audio.Button
	done    chan struct{}

	closeOnce sync.Once
	writeMu   sync.Mutex
}

func newStateClient(conn *websocket.Conn) *stateClient {
	return &stateClient{
		conn:    conn,
		updates: make(chan audio.Button, wsSendBuffer),
		done:    make(chan struct{}),
	}
}

func (s *stateClient) push(b audio.Button) {
	select {
	case s.updates <- b:
	case <-s.done:
	default:
	}
}

func (s *stateClient) writeLoop() {
	for {
		select {
		case b := <-s.updates:
			if err := s.write(b); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *stateClient) write(b audio.Button) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(b)
}

// readLoop drains client frames so close messages are processed.
func (s *stateClient) readLoop() {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *stateClient) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
}
