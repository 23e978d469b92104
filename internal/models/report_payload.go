package models

// OutcomesResponse is the JSON body of the report API's /outcomes endpoint.
type OutcomesResponse struct {
	Data       []SubmissionResult `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

type RunsResponse struct {
	Data []RunSummary `json:"data"`
}

type Pagination struct {
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}
