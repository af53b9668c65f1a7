package models

import "time"

// Poll kind constants
const (
	KindBinary   = "binary"
	KindChoice   = "choice"
	KindRating   = "rating"
	KindReaction = "reaction"
)

// Petition status constants
const (
	PetitionActive    = "active"
	PetitionSubmitted = "submitted"
	PetitionResolved  = "resolved"
	PetitionRejected  = "rejected"
)

// Petition scope constants
const (
	ScopeLocal    = "local"
	ScopeRegional = "regional"
	ScopeNational = "national"
)

// Demographic dimensions accepted by the aggregation engine
const (
	DimensionRegion     = "region"
	DimensionAgeBracket = "age_bracket"
	DimensionGender     = "gender"
)

// ReactionLabels is the fixed option set installed for reaction polls.
var ReactionLabels = []string{"love", "like", "neutral", "dislike", "angry"}

// Request types

type CreatePollRequest struct {
	Prompt   string     `json:"prompt"`
	Kind     string     `json:"kind"`
	Options  []string   `json:"options,omitempty"`
	OpensAt  *time.Time `json:"opens_at,omitempty"`
	ClosesAt *time.Time `json:"closes_at,omitempty"`
}

type UpdatePollRequest struct {
	Prompt  *string  `json:"prompt,omitempty"`
	Active  *bool    `json:"active,omitempty"`
	Options []string `json:"options,omitempty"` // replacement option set; nil keeps the current one
}

type CastVoteRequest struct {
	OptionID   string  `json:"option_id,omitempty"`
	Rating     *int    `json:"rating,omitempty"`
	Region     *string `json:"region,omitempty"`
	AgeBracket *string `json:"age_bracket,omitempty"`
	Gender     *string `json:"gender,omitempty"`
}

type CreatePetitionRequest struct {
	Title           string      `json:"title"`
	Body            string      `json:"body"`
	Scope           string      `json:"scope"`
	TargetAuthority string      `json:"target_authority"`
	SignatureGoal   int         `json:"signature_goal"`
	Milestones      []Milestone `json:"milestones,omitempty"`
	Urgent          bool        `json:"urgent"`
}

type SignPetitionRequest struct {
	Message *string `json:"message,omitempty"`
}

type UpdatePetitionStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// Response types

type CreatePollResponse struct {
	PollID   string `json:"poll_id"`
	AdminKey string `json:"admin_key"`
}

type CreatePetitionResponse struct {
	PetitionID string `json:"petition_id"`
	AdminKey   string `json:"admin_key"`
}

type ParticipantResponse struct {
	ParticipantToken string `json:"participant_token"`
}

type CastVoteResponse struct {
	Vote    Vote   `json:"vote"`
	Message string `json:"message"`
}

type SignPetitionResponse struct {
	Signature Signature `json:"signature"`
	Message   string    `json:"message"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Kind      string    `json:"kind"`
	OpensAt   time.Time `json:"opens_at"`
	ClosesAt  time.Time `json:"closes_at"`
	Active    bool      `json:"active"`
	VoteCount int       `json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
}

// IsOpen reports whether the poll accepts votes at the given instant.
// Open means active and now within [opens_at, closes_at).
func (p Poll) IsOpen(now time.Time) bool {
	return p.Active && !now.Before(p.OpensAt) && now.Before(p.ClosesAt)
}

type Option struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Label    string `json:"label"`
	Position int    `json:"position"`
}

type PollWithOptions struct {
	Poll    Poll     `json:"poll"`
	Options []Option `json:"options"`
}

type Vote struct {
	ID            string    `json:"id"`
	PollID        string    `json:"poll_id"`
	ParticipantID string    `json:"-"` // Never expose in JSON
	OptionID      string    `json:"option_id"`
	Rating        *int      `json:"rating,omitempty"`
	Region        *string   `json:"region,omitempty"`
	AgeBracket    *string   `json:"age_bracket,omitempty"`
	Gender        *string   `json:"gender,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Petition struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	Scope           string    `json:"scope"`
	TargetAuthority string    `json:"target_authority"`
	SignatureCount  int       `json:"signature_count"`
	SignatureGoal   int       `json:"signature_goal"`
	Status          string    `json:"status"`
	Urgent          bool      `json:"urgent"`
	CreatedAt       time.Time `json:"created_at"`
}

// Milestone is a signature-count threshold with a human-readable label.
type Milestone struct {
	Threshold int    `json:"threshold"`
	Label     string `json:"label"`
}

type TimelineEntry struct {
	ID         string    `json:"id"`
	PetitionID string    `json:"petition_id"`
	Event      string    `json:"event"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}

type PetitionDetail struct {
	Petition   Petition        `json:"petition"`
	Milestones []Milestone     `json:"milestones"`
	Timeline   []TimelineEntry `json:"timeline"`
}

type Signature struct {
	ID            string    `json:"id"`
	PetitionID    string    `json:"petition_id"`
	ParticipantID string    `json:"-"` // Never expose in JSON
	Message       *string   `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Read models

type OptionTally struct {
	OptionID string  `json:"option_id"`
	Label    string  `json:"label"`
	Votes    int     `json:"votes"`
	Percent  float64 `json:"percent"`
}

type TallyResult struct {
	PollID  string        `json:"poll_id"`
	Total   int           `json:"total"`
	Options []OptionTally `json:"options"`
}

type Breakdown struct {
	PollID    string                    `json:"poll_id"`
	Dimension string                    `json:"dimension"`
	Values    map[string]map[string]int `json:"values"` // dimension value -> option id -> count
}

type SentimentResult struct {
	Score    int `json:"score"` // [-100, 100]
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	Total    int `json:"total"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
