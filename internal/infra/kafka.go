package infra

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// CheckKafka dials the first broker to verify connectivity before the service
// starts publishing audit events.
func CheckKafka(ctx context.Context, brokers []string) error {
	if len(brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka %s: %w", brokers[0], err)
	}
	defer conn.Close()
	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("list kafka brokers: %w", err)
	}
	return nil
}
