// Package protocol defines the messages exchanged with the classification
// gateway.
package protocol

// MessageKind defines type of message
type MessageKind string

const (
	// MessageKindClassify asks the gateway to classify one sequence.
	MessageKindClassify MessageKind = "classify"
	// MessageKindResult carries the outcome for one classify request.
	MessageKindResult MessageKind = "result"
)

// Message represents a protocol message. A classify request carries ID and
// Sequence; the matching result carries ID plus either Label or Error.
type Message struct {
	Kind     MessageKind `json:"kind"`
	ID       string      `json:"id,omitempty"`
	Sequence string      `json:"sequence,omitempty"`
	Label    string      `json:"label,omitempty"`
	Error    string      `json:"error,omitempty"`
}
