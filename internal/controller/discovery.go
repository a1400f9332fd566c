package controller

import (
	"context"
	"net/url"
	"strconv"

	"casedesk/internal/model"
)

func (c *Controller) SaveDiscoveryRequestText(ctx context.Context, r model.DiscoveryRequest) error {
	_, err := c.post(ctx, "/discovery/request/save", url.Values{
		"id":             {r.ID},
		"request_number": {strconv.Itoa(r.RequestNumber)},
		"request_text":   {r.RequestText},
		"response_text":  {r.ResponseText},
	})
	return err
}

func (c *Controller) DeleteDiscoveryRequest(ctx context.Context, id string, requestNumber int) error {
	_, err := c.post(ctx, "/discovery/request/delete", url.Values{
		"id":             {id},
		"request_number": {strconv.Itoa(requestNumber)},
	})
	return err
}

func (c *Controller) DeleteDiscoveryDocument(ctx context.Context, id string) error {
	_, err := c.post(ctx, "/discovery/document/delete", url.Values{"id": {id}})
	return err
}

// SetDiscoveryDocumentCleanedUp toggles the document's cleaned-up flag. The backend reads value as an int.
func (c *Controller) SetDiscoveryDocumentCleanedUp(ctx context.Context, id string, value bool) error {
	v := "0"
	if value {
		v = "1"
	}
	_, err := c.post(ctx, "/discovery/document/set_cleaned_flag", url.Values{
		"id":    {id},
		"value": {v},
	})
	return err
}

// SetDiscoveryDocumentField sets one arbitrary field on a discovery document.
func (c *Controller) SetDiscoveryDocumentField(ctx context.Context, id, key, value string) error {
	_, err := c.post(ctx, "/discovery/document/set_field", url.Values{
		"id":    {id},
		"key":   {key},
		"value": {value},
	})
	return err
}
