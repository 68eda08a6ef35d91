package lead

// CreateLeadRequest is the body of POST /v1/leads.
type CreateLeadRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Status       Status  `json:"status"`
	Source       Source  `json:"source"`
	Notes        string  `json:"notes"`
	FollowUpDate *string `json:"followUpDate"`
	AssignedTo   string  `json:"assignedTo"`
}

// UpdateLeadRequest is the body of PUT /v1/leads/:id.
// Nil fields are left untouched.
type UpdateLeadRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Status       *Status `json:"status"`
	Source       *Source `json:"source"`
	Notes        *string `json:"notes"`
	FollowUpDate *string `json:"followUpDate"` // "" clears the date
	AssignedTo   *string `json:"assignedTo"`
}

// ListResult is one page of leads.
type ListResult struct {
	Leads []Lead
	Total int64
	Page  int
	Limit int
	Pages int
}

// Stats is the lead count per status.
type Stats struct {
	Total    int64            `json:"total"`
	ByStatus map[Status]int64 `json:"byStatus"`
}
