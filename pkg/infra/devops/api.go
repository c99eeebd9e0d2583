package devops

import (
	"time"

	"adowatch/pkg/domain/model"
)

// Wire representations of the Azure DevOps REST responses. List responses
// arrive wrapped in a {count, value} envelope.

type projectListResponse struct {
	Count int          `json:"count"`
	Value []apiProject `json:"value"`
}

type apiProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	State       string `json:"state"`
	Revision    int64  `json:"revision"`
	Visibility  string `json:"visibility"`
}

func (p *apiProject) toModel() *model.Project {
	return &model.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		URL:         p.URL,
		State:       p.State,
		Revision:    p.Revision,
		Visibility:  p.Visibility,
	}
}

type buildListResponse struct {
	Count int        `json:"count"`
	Value []apiBuild `json:"value"`
}

type apiBuild struct {
	ID            int           `json:"id"`
	BuildNumber   string        `json:"buildNumber"`
	Status        string        `json:"status"`
	Result        string        `json:"result"`
	SourceBranch  string        `json:"sourceBranch"`
	SourceVersion string        `json:"sourceVersion"`
	QueueTime     time.Time     `json:"queueTime"`
	StartTime     time.Time     `json:"startTime"`
	FinishTime    time.Time     `json:"finishTime"`
	Definition    apiDefinition `json:"definition"`
	Links         apiLinks      `json:"_links"`
}

type apiDefinition struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Revision int    `json:"revision"`
}

type apiLinks struct {
	Web apiLink `json:"web"`
}

type apiLink struct {
	Href string `json:"href"`
}

func (b *apiBuild) toModel() model.Build {
	return model.Build{
		ID:            b.ID,
		Number:        b.BuildNumber,
		Status:        model.BuildStatus(b.Status),
		Result:        model.BuildResult(b.Result),
		SourceBranch:  b.SourceBranch,
		SourceVersion: b.SourceVersion,
		QueueTime:     b.QueueTime,
		StartTime:     b.StartTime,
		FinishTime:    b.FinishTime,
		Definition: model.Definition{
			ID:       b.Definition.ID,
			Name:     b.Definition.Name,
			Revision: b.Definition.Revision,
		},
		WebURL: b.Links.Web.Href,
	}
}
