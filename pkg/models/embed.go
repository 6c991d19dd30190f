package models

// EmbedRecord is the persisted metadata for one custom-thumbnail embed.
// It links the public identifier to the YouTube video, the transcoded
// thumbnail blob, and the display title. Records are created exactly once
// by the ingestion pipeline and are never updated.
type EmbedRecord struct {
	// DynamoDB keys; unused by the filesystem and Redis stores.
	PK string `dynamodbav:"pk" json:"-"`
	SK string `dynamodbav:"sk" json:"-"`

	ID                string `dynamodbav:"id" json:"id"`
	YoutubeID         string `dynamodbav:"youtube_id" json:"youtubeId"`
	ThumbnailLocation string `dynamodbav:"thumbnail_location" json:"thumbnailLocation"`
	Title             string `dynamodbav:"title" json:"title"`
	CreatedAt         string `dynamodbav:"created_at" json:"createdAt"`
}
