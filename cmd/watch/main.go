// Command watch subscribes to a running navigator's detection feed and
// prints each obstacle as it is seen. Useful for checking what the
// camera picks up without opening the browser viewer.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"github.com/veranav/go-vera/pkg/hub"
)

func main() {
	addr := flag.String("addr", "localhost:5000", "navigator app host:port")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws/detections"}
	log.Printf("🔌 Connecting to %s", u.String())

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		if resp != nil {
			log.Fatalf("dial failed: %v (status: %d)", err, resp.StatusCode)
		}
		log.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	log.Println("✅ Connected, waiting for detections (Ctrl+C to quit)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	msgCh := make(chan hub.Envelope, 16)
	go func() {
		defer close(msgCh)
		for {
			var env hub.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.Printf("❌ Read error: %v", err)
				}
				return
			}
			msgCh <- env
		}
	}()

	for {
		select {
		case <-sigCh:
			log.Println("👋 Shutting down...")
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case env, ok := <-msgCh:
			if !ok {
				log.Println("connection closed")
				return
			}
			printDetections(env)
		}
	}
}

// printDetections writes one line per detected object. Frames with no
// detections are skipped to keep the output readable.
func printDetections(env hub.Envelope) {
	if env.Type != "detections" {
		return
	}
	for _, d := range env.Detections {
		dist := "distance unknown"
		if d.DistanceCM != nil {
			dist = fmt.Sprintf("%.0f cm", *d.DistanceCM)
		}
		marker := "👀"
		if d.IsClose {
			marker = "⚠️"
		}
		log.Printf("%s %s  %s  (%.2f)", marker, d.Label, dist, d.Confidence)
	}
}
