package vision

import (
	"context"

	"github.com/snapnote-lab/snapnote/pkg/domain/model"
	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

// Canned returns a fixed analysis for offline and demo operation. Selected at
// configuration time when no API key is present, it is not a runtime fallback.
type Canned struct{}

var _ Analyzer = &Canned{}

func NewCanned() *Canned {
	return &Canned{}
}

func (c *Canned) Analyze(_ context.Context, _ []byte, _ string) (*model.ScreenshotAnalysis, error) {
	title := "Hotel Deluxe"
	notebook := "Hotel Research"
	return &model.ScreenshotAnalysis{
		RawText:  "Hotel Deluxe\n5 Star Rating\n$299/night\nSan Francisco, CA\nwww.hoteldeluxe.com",
		Summary:  "A hotel listing for Hotel Deluxe in San Francisco",
		Category: types.CategoryTripPlanning,
		Entities: []model.Entity{
			{
				Type:  "hotel",
				Title: &title,
				Attributes: map[string]string{
					"price":    "$299/night",
					"rating":   "5 Star",
					"location": "San Francisco, CA",
					"url":      "www.hoteldeluxe.com",
				},
			},
		},
		SuggestedNotebookTitle: &notebook,
	}, nil
}
