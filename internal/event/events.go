// Package event holds the lifecycle event records written into the reserved
// configuration topic, plus the topic names used on the in-process
// notification bus.
package event

import (
	"time"

	"github.com/nfrund/topicstore/internal/topic"
)

// ConfigurationTopic is the reserved topic that records topic-lifecycle
// events. Its container sits next to ordinary topic containers in storage.
const ConfigurationTopic = "_configuration"

// TopicCreatedNotification is the in-process bus topic carrying TopicCreated
// records to live subscribers. It is a best-effort mirror of the durable
// log, not a replacement for it.
const TopicCreatedNotification = "catalog.topic.created"

// TopicCreated is the durable record of a topic-creation fact.
type TopicCreated struct {
	TopicName    string              `json:"topicName"`
	Description  string              `json:"description"`
	Version      int                 `json:"version"`
	CreatedAt    time.Time           `json:"createdAt"`
	EventSchemas []topic.EventSchema `json:"eventSchemas"`
}

// NewTopicCreated builds the lifecycle record for a freshly created topic.
func NewTopicCreated(t topic.Topic) TopicCreated {
	return TopicCreated{
		TopicName:    t.Name,
		Description:  t.Description,
		Version:      t.Version,
		CreatedAt:    t.CreatedAt,
		EventSchemas: t.EventSchemas,
	}
}
