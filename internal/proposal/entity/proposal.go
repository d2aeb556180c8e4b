package entity

// Review statuses of an investor proposal.
const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Proposal is a submitted investment proposal as admins see it.
type Proposal struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Sector           string `json:"sector"`
	Phone            string `json:"phone"`
	ProposalFilename string `json:"proposal_filename,omitempty"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at,omitempty"`
}
