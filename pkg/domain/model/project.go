package model

// Project is a resolved Azure DevOps project descriptor
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	State       string `json:"state,omitempty"`
	Revision    int64  `json:"revision,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}
