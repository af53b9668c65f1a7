package models

// Event type constants published through the broadcaster.
const (
	EventPollCreated           = "PollCreated"
	EventPetitionCreated       = "PetitionCreated"
	EventVoteCast              = "VoteCast"
	EventVoteUpdated           = "VoteUpdated"
	EventVoteRetracted         = "VoteRetracted"
	EventSignatureAdded        = "SignatureAdded"
	EventGoalReached           = "GoalReached"
	EventPetitionStatusChanged = "PetitionStatusChanged"
)

// Event payloads. Delivery is at-least-once with no replay, so every
// payload carries enough state (ids plus new totals) for a subscriber to
// deduplicate or reconcile with an on-demand read.

type VoteCastPayload struct {
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id"`
	NewTotal int    `json:"new_total"`
}

type VoteUpdatedPayload struct {
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id"`
	Total    int    `json:"total"`
}

type VoteRetractedPayload struct {
	PollID   string `json:"poll_id"`
	NewTotal int    `json:"new_total"`
}

type SignatureAddedPayload struct {
	PetitionID       string     `json:"petition_id"`
	NewCount         int        `json:"new_count"`
	MilestoneCrossed *Milestone `json:"milestone_crossed,omitempty"`
	GoalReached      bool       `json:"goal_reached"`
}

type GoalReachedPayload struct {
	PetitionID string `json:"petition_id"`
	Count      int    `json:"count"`
	Goal       int    `json:"goal"`
}

type StatusChangedPayload struct {
	PetitionID string `json:"petition_id"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	Note       string `json:"note,omitempty"`
}

type AnnouncementPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
