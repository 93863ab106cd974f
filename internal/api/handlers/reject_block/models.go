package reject_block

// RejectBlockRequest HTTP request model
type RejectBlockRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
