package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KnowledgeChunk is one searchable piece of a user's knowledge base,
// used to ground generated posts in the user's own material.
// Collection: knowledge_chunks
type KnowledgeChunk struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UserID    string             `bson:"user_id" json:"user_id"`

	Title   string   `bson:"title" json:"title"`
	Content string   `bson:"content" json:"content"`
	Tags    []string `bson:"tags,omitempty" json:"tags,omitempty"`
}
