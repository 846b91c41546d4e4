package kafka

// Topic definitions for Kafka event streaming
const (
	// Coin lifecycle
	TopicCoinCreated = "coins.created"
	TopicCoinTraded  = "coins.traded"
)
