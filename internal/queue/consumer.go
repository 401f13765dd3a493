package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var lifecycleQueues = []string{
	ReservationCreatedQueue,
	ReservationPaidQueue,
	ReservationCanceledQueue,
}

// StartReservationConsumer connects to RabbitMQ, declares the three
// lifecycle queues (durable) and consumes them, appending one line
// per event to logs/reservation.log. It runs a reconnect loop with
// exponential backoff and never returns under normal operation;
// processing errors are logged and the offending message is rejected
// without requeue so a poison message cannot loop.
func StartReservationConsumer() error {
	url := BrokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("reservation-consumer: set QoS failed: %v", err)
	}

	done := make(chan error, len(lifecycleQueues))
	for _, name := range lifecycleQueues {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		go func(name string, msgs <-chan amqp.Delivery) {
			for d := range msgs {
				if err := handleMessage(name, d.Body); err != nil {
					log.Printf("reservation-consumer: handle %s message failed: %v", name, err)
					_ = d.Nack(false, false) // reject, do not requeue
					continue
				}
				_ = d.Ack(false)
			}
			done <- fmt.Errorf("%s deliveries channel closed", name)
		}(name, msgs)
	}

	// One closed delivery channel means the underlying channel or
	// connection died; reconnect rather than limp along.
	return <-done
}

func handleMessage(queueName string, body []byte) error {
	line, err := formatEvent(queueName, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "reservation.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatEvent(queueName string, body []byte) (string, error) {
	switch queueName {
	case ReservationCreatedQueue:
		var ev ReservationCreatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		seats := "[]"
		if len(ev.SeatLabels) > 0 {
			seats = fmt.Sprintf("[%s]", strings.Join(ev.SeatLabels, ","))
		}
		return fmt.Sprintf("[%s] Reservation created | reservation_id=%d | customer_id=%d | screening_id=%d | movie=%q | hall=%q | seats=%s | expires_at=%s\n",
			ev.CreatedAt, ev.ReservationID, ev.CustomerID, ev.ScreeningID, ev.MovieTitle, ev.HallName, seats, ev.ExpiresAt), nil
	case ReservationPaidQueue:
		var ev ReservationPaidEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Reservation paid | reservation_id=%d | customer_id=%d | screening_id=%d\n",
			ev.ConfirmedAt, ev.ReservationID, ev.CustomerID, ev.ScreeningID), nil
	case ReservationCanceledQueue:
		var ev ReservationCanceledEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Reservation canceled | reservation_id=%d | customer_id=%d | screening_id=%d | reason=%s\n",
			ev.CanceledAt, ev.ReservationID, ev.CustomerID, ev.ScreeningID, ev.Reason), nil
	default:
		return "", fmt.Errorf("unknown queue %q", queueName)
	}
}
