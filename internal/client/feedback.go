package client

import (
	"context"
	"net/http"

	"cooknet-client/internal/types"
)

// SubmitFeedback files a feedback ticket. Works unauthenticated; the email
// in the request is the reply-to address.
func (c *Client) SubmitFeedback(ctx context.Context, req types.FeedbackRequest) error {
	if err := types.Validate(req); err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodPost, "/api/feedback", nil, req, nil)
}
