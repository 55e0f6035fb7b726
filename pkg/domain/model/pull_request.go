package model

// PullRequest holds the metadata of a merged pull request
type PullRequest struct {
	Title       string
	Description string
	Branch      string // Branch the pull request was merged into
	URL         string
}

// Complement fills empty fields of p with the values of src
func (p *PullRequest) Complement(src *PullRequest) {
	if p.Title == "" {
		p.Title = src.Title
	}
	if p.Description == "" {
		p.Description = src.Description
	}
	if p.Branch == "" {
		p.Branch = src.Branch
	}
	if p.URL == "" {
		p.URL = src.URL
	}
}

// Webhook holds the Jira Automation incoming webhook credentials
type Webhook struct {
	URL    string
	Secret string `masq:"secret"`
}

// NotificationData carries the merge details inside NotificationPayload
type NotificationData struct {
	Branch string `json:"branch"`
	PRURL  string `json:"pr_url"`
}

// NotificationPayload is the body posted to the Jira webhook
type NotificationPayload struct {
	Issues []string         `json:"issues"`
	Data   NotificationData `json:"data"`
}

// NewNotificationPayload builds the webhook body for tickets merged by pr
func NewNotificationPayload(tickets []string, pr *PullRequest) *NotificationPayload {
	return &NotificationPayload{
		Issues: tickets,
		Data: NotificationData{
			Branch: pr.Branch,
			PRURL:  pr.URL,
		},
	}
}

// NotifyResult reports the outcome of a single notification run
type NotifyResult struct {
	Tickets  []string
	Branch   string
	Notified bool // Whether the webhook was called
}
