package eventbus

// Global topic declarations. Kept in one place so they can be swapped
// for environment-specific names later.

var (
	TopicBatchEvents = NewTopic("autopilot.batch.events")
)

var AllTopics = []Topic{
	TopicBatchEvents,
}
