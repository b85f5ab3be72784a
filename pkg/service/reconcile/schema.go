package reconcile

import (
	"github.com/m-mizutani/gollem"
)

func entitySchema() *gollem.Parameter {
	return &gollem.Parameter{
		Type: gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"type": {
				Type:        gollem.TypeString,
				Description: "Entity kind, e.g. hotel, flight, product, job",
				Required:    true,
			},
			"title": {
				Type:        gollem.TypeString,
				Description: "Display title of the entity, null when unknown",
			},
			"attributes": {
				Type:        gollem.TypeObject,
				Description: "String-valued attributes such as price or rating",
			},
		},
	}
}

// buildStateSchema creates the JSON schema for the regenerated session state
func buildStateSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "SessionStateResponse",
		Description: "Reconciled state for the whole session",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"sessionSummary": {
				Type:        gollem.TypeString,
				Description: "One or two sentences describing the whole session",
				Required:    true,
			},
			"sessionCategory": {
				Type:        gollem.TypeString,
				Description: "One of: " + categoryList(),
				Required:    true,
			},
			"entities": {
				Type:        gollem.TypeArray,
				Description: "Deduplicated entities merged across all screenshots",
				Items:       entitySchema(),
				Required:    true,
			},
			"suggestedNotebookTitle": {
				Type:        gollem.TypeString,
				Description: "Short notebook name for the session, null when nothing fits",
			},
			"suggestions": {
				Type:        gollem.TypeArray,
				Description: "Suggested follow-ups, each of type question, ranking or next-step",
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"type": {
							Type:        gollem.TypeString,
							Description: "question, ranking or next-step",
							Required:    true,
						},
						"text": {
							Type:        gollem.TypeString,
							Description: "Suggestion text shown to the user",
						},
						"basis": {
							Type:        gollem.TypeString,
							Description: "Ranking criterion, required for ranking suggestions",
						},
						"items": {
							Type:        gollem.TypeArray,
							Description: "Ranked entities, required non-empty for ranking suggestions",
							Items: &gollem.Parameter{
								Type: gollem.TypeObject,
								Properties: map[string]*gollem.Parameter{
									"entityTitle": {Type: gollem.TypeString, Required: true},
									"reason":      {Type: gollem.TypeString, Required: true},
								},
							},
						},
					},
				},
			},
		},
	}
}
