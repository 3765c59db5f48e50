package gateway

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ramou/TooT-BERT-T/pkg/protocol"
)

// Client represents a connected WebSocket client
type Client struct {
	ID        string
	Conn      *websocket.Conn
	Server    *Server
	sendLock  sync.Mutex
	closeChan chan struct{}
	closeOnce sync.Once
}

// NewClient creates a new client
func NewClient(id string, conn *websocket.Conn, server *Server) *Client {
	return &Client{
		ID:        id,
		Conn:      conn,
		Server:    server,
		closeChan: make(chan struct{}),
	}
}

// Handle processes incoming messages from the client until the connection
// closes. Requests on one connection are classified in arrival order.
func (c *Client) Handle() {
	defer c.Close()

	for {
		select {
		case <-c.closeChan:
			return

		default:
			var msg protocol.Message
			if err := c.Conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket error [%s]: %v", c.ID, err)
				}
				return
			}

			c.ProcessMessage(&msg)
		}
	}
}

// ProcessMessage handles one incoming message based on kind.
func (c *Client) ProcessMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}

	switch msg.Kind {
	case protocol.MessageKindClassify:
		c.handleClassify(msg)
	default:
		c.sendResult(&protocol.Message{
			Kind:  protocol.MessageKindResult,
			ID:    msg.ID,
			Error: "unknown message kind: " + string(msg.Kind),
		})
	}
}

// handleClassify runs the pipeline for one sequence. A pipeline failure is
// reported back on the same connection and never tears the connection down.
func (c *Client) handleClassify(msg *protocol.Message) {
	label, err := c.Server.pipeline.Process(context.Background(), msg.Sequence)

	resp := protocol.Message{
		Kind: protocol.MessageKindResult,
		ID:   msg.ID,
	}
	if err != nil {
		resp.Error = err.Error()
		c.Server.problems.Add(1)
	} else {
		resp.Label = label
	}
	c.Server.processed.Add(1)
	c.sendResult(&resp)
}

func (c *Client) sendResult(msg *protocol.Message) {
	if err := c.Send(msg); err != nil {
		log.Printf("send error [%s]: %v", c.ID, err)
	}
}

// Send sends a message to the client.
func (c *Client) Send(msg *protocol.Message) error {
	c.sendLock.Lock()
	defer c.sendLock.Unlock()

	return c.Conn.WriteJSON(msg)
}

// Close closes the client connection and removes it from the server.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		c.Conn.Close()
		c.Server.removeClient(c.ID)
		log.Printf("client disconnected: %s", c.ID)
	})
}
