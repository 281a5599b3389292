package cmd

import (
	"fmt"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers     []string
	KafkaEventsTopic string

	// SLA delay queue consumer.
	SlaMonitorSchedule  string
	SlaMonitorBatchSize int
	SlaJobLease         time.Duration
	SlaJobMaxAttempts   int
	SlaJobRetryBackoff  time.Duration

	// Transactional outbox relay.
	OutboxRelaySchedule  string
	OutboxRelayBatchSize int
	OutboxLease          time.Duration
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
