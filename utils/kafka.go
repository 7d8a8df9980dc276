package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	kafkaWriter *kafka.Writer
	kafkaTopic  string
)

// InitializeKafka sets up the shared writer for the registration mail topic.
// Kafka being down must not stop the server: publish errors are logged by callers.
func InitializeKafka() {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}

	kafkaTopic = os.Getenv("KAFKA_MAIL_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "registration-emails"
	}

	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        kafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	fmt.Println("✅ Kafka writer initialised:", brokers, "topic:", kafkaTopic)
}

// PublishMessage writes a single message with a short timeout
func PublishMessage(key string, payload []byte) error {
	if kafkaWriter == nil {
		return fmt.Errorf("kafka writer not initialised")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// NewMailReader builds a reader for the registration mail topic
func NewMailReader() *kafka.Reader {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}
	topic := kafkaTopic
	if topic == "" {
		topic = "registration-emails"
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  strings.Split(brokers, ","),
		Topic:    topic,
		GroupID:  "portal-mailer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// CloseKafka flushes and closes the writer (called on shutdown)
func CloseKafka() {
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			log.Printf("⚠️ Kafka writer close: %v", err)
		}
	}
}
