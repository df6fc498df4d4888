// Package session streams chart frames and hover results to websocket clients.
package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/inamate/chartlines/internal/charts"
	"github.com/inamate/chartlines/internal/render"
)

// ChartService runs chart operations on behalf of clients.
type ChartService interface {
	Frame(chartID string) ([]render.Command, error)
	Hover(chartID string, x, y float64) (*charts.Hover, error)
	SetVisibleRange(chartID string, req charts.RangeRequest) ([]render.Command, error)
	SetSize(chartID string, width, height int) ([]render.Command, error)
}

type Room struct {
	chartID string
	clients map[string]*Client // clientID -> client
	seq     int64
}

func NewRoom(chartID string) *Room {
	return &Room{
		chartID: chartID,
		clients: make(map[string]*Client),
	}
}

type Hub struct {
	service ChartService

	mu         sync.Mutex
	rooms      map[string]*Room // chartID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(service ChartService) *Hub {
	return &Hub{
		service:    service,
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Pending Register and Unregister calls return immediately.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Clients returns the number of clients watching a chart.
func (h *Hub) Clients(chartID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[chartID]
	if !ok {
		return 0
	}
	return len(room.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ChartID]
	if !ok {
		room = NewRoom(client.ChartID)
		h.rooms[client.ChartID] = room
	}
	room.clients[client.ClientID] = client
	seq := room.seq
	h.mu.Unlock()

	frame, err := h.service.Frame(client.ChartID)
	if err != nil {
		client.sendError(0, err.Error())
	} else {
		msg, err := newMessage(TypeWelcome, client.ChartID, seq, WelcomePayload{
			ClientID: client.ClientID,
			Subject:  client.Subject,
			Frame:    frame,
		})
		if err == nil {
			client.Send(msg)
		}
	}

	slog.Info("client joined", "client", client.ClientID, "chart", client.ChartID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ChartID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)

	if len(room.clients) == 0 {
		delete(h.rooms, client.ChartID)
	}
	h.mu.Unlock()

	slog.Info("client left", "client", client.ClientID, "chart", client.ChartID)
}

// FrameChanged broadcasts a new frame to every client of the chart.
func (h *Hub) FrameChanged(chartID string, frame []render.Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[chartID]
	if !ok {
		return
	}
	room.seq++

	msg, err := newMessage(TypeFrame, chartID, room.seq, FramePayload{Frame: frame})
	if err != nil {
		slog.Error("marshal frame", "error", err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	for _, c := range room.clients {
		c.sendRaw(data)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePointerMove:
		h.handlePointerMove(sender, msg)
	case TypeRangeSet:
		h.handleRangeSet(sender, msg)
	case TypeSizeSet:
		h.handleSizeSet(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.sendError(msg.Seq, "unknown message type: "+msg.Type)
	}
}

func (h *Hub) handlePointerMove(sender *Client, msg *Message) {
	var p PointerPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		sender.sendError(msg.Seq, "invalid pointer payload")
		return
	}

	hover, err := h.service.Hover(sender.ChartID, p.X, p.Y)
	if err != nil {
		sender.sendError(msg.Seq, err.Error())
		return
	}

	out, err := newMessage(TypeHover, sender.ChartID, msg.Seq, HoverPayload{
		X:     p.X,
		Y:     p.Y,
		Hit:   hover.Hit,
		Point: hover.Point,
	})
	if err != nil {
		return
	}
	sender.Send(out)
}

func (h *Hub) handleRangeSet(sender *Client, msg *Message) {
	var req charts.RangeRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		sender.sendError(msg.Seq, "invalid range payload")
		return
	}

	// the new frame reaches every client through FrameChanged
	if _, err := h.service.SetVisibleRange(sender.ChartID, req); err != nil {
		sender.sendError(msg.Seq, err.Error())
	}
}

func (h *Hub) handleSizeSet(sender *Client, msg *Message) {
	var size SizePayload
	if err := json.Unmarshal(msg.Payload, &size); err != nil {
		sender.sendError(msg.Seq, "invalid size payload")
		return
	}

	if _, err := h.service.SetSize(sender.ChartID, size.Width, size.Height); err != nil {
		sender.sendError(msg.Seq, err.Error())
	}
}
