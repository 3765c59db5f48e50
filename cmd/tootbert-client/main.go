// Command tootbert-client streams a FASTA file to a running tootbert-server
// and prints one prediction line per sequence.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ramou/TooT-BERT-T/internal/fasta"
	"github.com/ramou/TooT-BERT-T/pkg/protocol"
)

func main() {
	url := flag.String("url", "ws://127.0.0.1:18790/ws", "websocket server URL")
	input := flag.String("input", "-", "FASTA file to classify (\"-\" for stdin)")
	flag.Parse()

	records, err := fasta.ReadFile(*input)
	if err != nil {
		log.Fatalf("Read failed: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	for _, record := range records {
		req := protocol.Message{
			Kind:     protocol.MessageKindClassify,
			ID:       record.ID,
			Sequence: record.Sequence,
		}
		if err := conn.WriteJSON(&req); err != nil {
			log.Fatalf("Write failed: %v", err)
		}

		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

		var resp protocol.Message
		if err := conn.ReadJSON(&resp); err != nil {
			log.Fatalf("Read failed: %v", err)
		}
		if resp.Error != "" {
			fmt.Printf("Problem with sequence %s: %s\n", resp.ID, resp.Error)
			continue
		}
		fmt.Printf("%s\t%s\n", resp.ID, resp.Label)
	}
}
