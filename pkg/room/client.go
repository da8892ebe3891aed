package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pokerroom-server/pkg/protocol"
)

// Client is one websocket connection in a room
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// ConnectionID uniquely identifies the connection for the room's
	// audience and seat records
	ConnectionID string

	// Close is closed to terminate the connection; CloseError carries the
	// reason
	Close      chan string
	CloseError error

	roomID  string
	send    chan interface{}
	session *Session
}

// NewClient returns a new client for the given room
func NewClient(conn *websocket.Conn, connectionID, roomID string) *Client {
	return &Client{
		Conn:         conn,
		ConnectionID: connectionID,
		Close:        make(chan string, 1),
		roomID:       roomID,
		send:         make(chan interface{}, 256),
	}
}

// Send queues a message for the write pump. Returns false if the client's
// buffer is full.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns the read side of the outbound message queue
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the connection and room
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.ConnectionID, c.roomID)
}

// ReceivedMessage is called when the server receives a message from this
// connection
func (c *Client) ReceivedMessage(msg *protocol.PayloadIn) {
	if c.session == nil {
		logrus.WithField("msg", msg).Warn("received message, but session not found")
		return
	}

	c.session.ReceivedMessage(c, msg)
}
