package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SubscribeSession opens a broker connection, binds an exclusive
// auto-delete queue to the table.events exchange for one session's
// routing keys, and returns a channel of decoded events. The channel
// closes when ctx is cancelled or the broker connection drops; the
// connection is torn down with it. Callers own the context and must
// cancel it when the subscriber goes away, or the broker-side queue
// leaks until the connection times out.
func SubscribeSession(ctx context.Context, sessionID uint64) (<-chan TableEvent, error) {
	conn, err := amqp.Dial(BrokerURL())
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(TableEventsExchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, err
	}
	// server-named, exclusive, auto-delete: gone when we disconnect
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	for _, key := range SessionBindings(sessionID) {
		if err := ch.QueueBind(q.Name, key, TableEventsExchange, false, nil); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	out := make(chan TableEvent)
	go func() {
		defer close(out)
		defer func() { _ = conn.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				var ev TableEvent
				if err := json.Unmarshal(d.Body, &ev); err != nil {
					log.Printf("table-events: unmarshal failed: %v", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
