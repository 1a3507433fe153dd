// Package domain defines the persistence models for anonymous sessions,
// chat messages, and incident reports. These types are mapped with GORM
// and form the core data layer of the SafeSpace backend.
package domain

import "time"

// Session represents an anonymous conversation scope. It deliberately
// carries no identifying information: a random UUID and a creation
// timestamp are the only columns. Sessions are never mutated; the only
// lifecycle transition is a client-initiated hard delete, which cascades
// to all messages and reports owned by the session.
type Session struct {
	ID        string    `json:"session_id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// Message represents a single utterance within a session. Messages are
// authored either by the "user" or the "model" and are append-only: no
// update or single-row delete path exists. Retrieval is always ordered by
// CreatedAt ascending (ID as tiebreak), forming the exact conversational
// order.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - SessionID: foreign key to the owning session (indexed with CreatedAt).
//   - Role: "user" or "model" (enforced by DB constraint).
//   - Content: full text content of the message.
//   - CreatedAt: insertion timestamp (UTC).
//   - Session: FK association, ensures cascade delete.
type Message struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	SessionID string    `json:"session_id" gorm:"type:char(36);not null;index:idx_session_msgs,priority:1"`
	Role      string    `json:"role"       gorm:"type:varchar(16);not null;check:role IN ('user','model')"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_session_msgs,priority:2"`

	// Session is the owning conversation scope. Messages are
	// cascade-deleted when their session is removed.
	Session Session `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Report represents a structured incident submission plus the (optional)
// generated complaint-form narrative. The five enumerated fields are
// persisted immediately on submission; GeneratedDocument is filled in only
// when narrative generation succeeds and stays nil otherwise, so a
// downstream LLM outage never loses user input.
type Report struct {
	ID                  string    `json:"id"                   gorm:"type:char(36);primaryKey"`
	SessionID           string    `json:"session_id"           gorm:"type:char(36);not null;index"`
	Location            string    `json:"location"             gorm:"type:varchar(50);not null"`
	Perpetrator         string    `json:"perpetrator"          gorm:"type:varchar(50);not null"`
	IncidentDescription string    `json:"incident_description" gorm:"type:varchar(100);not null"`
	Evidence            string    `json:"evidence"             gorm:"type:varchar(50);not null"`
	UserGoal            string    `json:"user_goal"            gorm:"type:varchar(100);not null"`
	GeneratedDocument   *string   `json:"generated_document"   gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at"`

	// Session is the owning session. Reports are cascade-deleted with it.
	Session Session `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }

// Idempotency represents a recorded result of a previously processed chat
// turn, keyed by (session_id, key). It enables safe retries of POST chat
// requests by returning the originally produced model reply without
// invoking the LLM again.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	SessionID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_session_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_session_key,priority:2"`
	MessageID string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
