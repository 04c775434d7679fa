package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toKey returns the ObjectID for a 24-character hex id and the raw string otherwise
func toKey(id string) interface{} {
	if objectID, err := primitive.ObjectIDFromHex(id); err == nil {
		return objectID
	}
	return id
}

// idToString renders a stored key back to text
func idToString(val interface{}) string {
	switch id := val.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}

func getString(doc bson.M, key string) string {
	if val, ok := doc[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getInt(doc bson.M, key string) int {
	if val, ok := doc[key]; ok && val != nil {
		switch n := val.(type) {
		case int32:
			return int(n)
		case int64:
			return int(n)
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return 0
}

func getTime(doc bson.M, key string) time.Time {
	if val, ok := doc[key]; ok && val != nil {
		// Handle time.Time directly
		if t, ok := val.(time.Time); ok {
			return t
		}
		// Handle primitive.DateTime
		if dt, ok := val.(primitive.DateTime); ok {
			return dt.Time()
		}
	}
	return time.Time{}
}
