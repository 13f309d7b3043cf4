package update_appointment_status

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"` // confirmed | in_progress | completed | no_show
	Reason *string `json:"reason,omitempty"`
}
