package models

import "time"

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// User represents a registered user. Users are provisioned on first
// successful session exchange and are never hard-deleted.
type User struct {
	UserID              string    `json:"user_id" bson:"user_id"`
	Email               string    `json:"email" bson:"email"`
	Name                string    `json:"name" bson:"name"`
	Picture             *string   `json:"picture,omitempty" bson:"picture,omitempty"`
	ProfileImages       []string  `json:"profile_images" bson:"profile_images"`
	Bio                 *string   `json:"bio,omitempty" bson:"bio,omitempty"`
	Verified            bool      `json:"verified" bson:"verified"`
	IDVerificationImage *string   `json:"id_verification_image,omitempty" bson:"id_verification_image,omitempty"`
	BlockedUsers        []string  `json:"blocked_users" bson:"blocked_users"`
	PushToken           *string   `json:"push_token,omitempty" bson:"push_token,omitempty"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
}

// PublicProfile is the view of a user exposed to other users. It never
// carries the verification image, blocked list or push token.
type PublicProfile struct {
	UserID        string    `json:"user_id" bson:"user_id"`
	Name          string    `json:"name" bson:"name"`
	Picture       *string   `json:"picture,omitempty" bson:"picture,omitempty"`
	ProfileImages []string  `json:"profile_images" bson:"profile_images"`
	Bio           *string   `json:"bio,omitempty" bson:"bio,omitempty"`
	Verified      bool      `json:"verified" bson:"verified"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// Route is a recurring commute pattern owned by one user.
type Route struct {
	RouteID       string      `json:"route_id" bson:"route_id"`
	UserID        string      `json:"user_id" bson:"user_id"`
	StartCoords   Coordinates `json:"start_coords" bson:"start_coords"`
	EndCoords     Coordinates `json:"end_coords" bson:"end_coords"`
	StartAddress  string      `json:"start_address" bson:"start_address"`
	EndAddress    string      `json:"end_address" bson:"end_address"`
	DepartureTime string      `json:"departure_time" bson:"departure_time"` // "HH:MM"
	DaysOfWeek    []string    `json:"days_of_week" bson:"days_of_week"`     // lowercase day names
	Active        bool        `json:"active" bson:"active"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
}

// Connection statuses. A connection is pending until the receiving party
// accepts or rejects it; both outcomes are terminal.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection is an unordered pair of users with a handshake status.
// User1 is the requester; only User2 may change the status.
type Connection struct {
	ConnectionID string    `json:"connection_id" bson:"connection_id"`
	User1ID      string    `json:"user1_id" bson:"user1_id"`
	User2ID      string    `json:"user2_id" bson:"user2_id"`
	PairKey      string    `json:"-" bson:"pair_key"` // sorted "a|b", unique-indexed
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Other returns the counterpart of userID in the connection.
func (c *Connection) Other(userID string) string {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// Message is immutable once stored except for the read flag, which the
// receiver sets in bulk per conversation.
type Message struct {
	MessageID  string    `json:"message_id" bson:"message_id"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	ReceiverID string    `json:"receiver_id" bson:"receiver_id"`
	Content    string    `json:"content" bson:"content"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	Read       bool      `json:"read" bson:"read"`
}

// Report is an append-only abuse report.
type Report struct {
	ReportID       string    `json:"report_id" bson:"report_id"`
	ReporterID     string    `json:"reporter_id" bson:"reporter_id"`
	ReportedUserID string    `json:"reported_user_id" bson:"reported_user_id"`
	Reason         string    `json:"reason" bson:"reason"`
	Details        *string   `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
}

// Session maps an opaque provider-issued token to a user for a bounded
// time window. Expired sessions are deleted lazily on lookup.
type Session struct {
	UserID       string    `json:"user_id" bson:"user_id"`
	SessionToken string    `json:"session_token" bson:"session_token"`
	ExpiresAt    time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// MatchedUser is one entry in the discovery result, a candidate whose
// route is compatible with one of the requester's routes.
type MatchedUser struct {
	UserID          string  `json:"user_id"`
	Name            string  `json:"name"`
	Picture         *string `json:"picture,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	Verified        bool    `json:"verified"`
	RouteMatchScore float64 `json:"route_match_score"`
	DistanceToStart float64 `json:"distance_to_start"` // km
	DistanceToEnd   float64 `json:"distance_to_end"`   // km
}
