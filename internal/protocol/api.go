package protocol

// APIVersion is bumped on incompatible changes to the HTTP API.
const APIVersion = 1

type HealthResponse struct {
	Status string `json:"status"`
}

type ServerInfoResponse struct {
	Name       string `json:"name"`
	APIVersion int    `json:"api_version"`
	Version    string `json:"version"`
	Hostname   string `json:"hostname,omitempty"`
}

type ListResultsResponse struct {
	Results []ResultSummary `json:"results"`
}

type ResultResponse struct {
	Result ResultRecord `json:"result"`
}

type SubmissionResponse struct {
	Accepted bool   `json:"accepted"`
	ID       string `json:"id,omitempty"`
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
}

type DeleteResultResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}
