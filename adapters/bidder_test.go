package adapters

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bidforge/bidforge/errortypes"
)

func TestNewBidderResponse(t *testing.T) {
	bidderResponse := NewBidderResponse()

	assert.Equal(t, "USD", bidderResponse.Currency)
	assert.Empty(t, bidderResponse.Bids)
}

func TestNewBidderResponseWithBidsCapacity(t *testing.T) {
	bidderResponse := NewBidderResponseWithBidsCapacity(3)

	assert.Equal(t, "USD", bidderResponse.Currency)
	assert.Empty(t, bidderResponse.Bids)
	assert.Equal(t, 3, cap(bidderResponse.Bids))
}

func TestIsResponseStatusCodeNoContent(t *testing.T) {
	assert.True(t, IsResponseStatusCodeNoContent(&ResponseData{StatusCode: http.StatusNoContent}))
	assert.False(t, IsResponseStatusCodeNoContent(&ResponseData{StatusCode: http.StatusOK}))
}

func TestCheckResponseStatusCodeForErrors(t *testing.T) {
	assert.NoError(t, CheckResponseStatusCodeForErrors(&ResponseData{StatusCode: http.StatusOK}))

	err := CheckResponseStatusCodeForErrors(&ResponseData{StatusCode: http.StatusBadRequest})
	assert.IsType(t, &errortypes.BadInput{}, err)

	err = CheckResponseStatusCodeForErrors(&ResponseData{StatusCode: http.StatusServiceUnavailable})
	assert.IsType(t, &errortypes.BadServerResponse{}, err)
}
