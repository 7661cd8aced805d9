package adtarget

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/stretchr/testify/assert"

	"github.com/bidforge/bidforge/adapters"
	"github.com/bidforge/bidforge/config"
	"github.com/bidforge/bidforge/errortypes"
	"github.com/bidforge/bidforge/openrtb_ext"
)

func buildBidder(t *testing.T) adapters.Bidder {
	t.Helper()

	bidder, buildErr := Builder(
		openrtb_ext.BidderAdtarget,
		config.Adapter{Endpoint: "https://ghb.console.adtarget.com.tr/auction"},
		config.Server{ExternalUrl: "http://hosturl.com"},
	)
	if buildErr != nil {
		t.Fatalf("Builder returned unexpected error %v", buildErr)
	}
	return bidder
}

func sampleRequest() *openrtb2.BidRequest {
	return &openrtb2.BidRequest{
		ID:   "req-1",
		Site: &openrtb2.Site{ID: "site-1"},
		Imp: []openrtb2.Imp{
			{ID: "imp-1", Banner: &openrtb2.Banner{}, Ext: json.RawMessage(`{"bidder":{"aid":52}}`)},
			{ID: "imp-2", Video: &openrtb2.Video{}, Ext: json.RawMessage(`{"bidder":{"aid":52}}`)},
		},
	}
}

func TestMakeRequestsRejectsAppRequests(t *testing.T) {
	bidder := buildBidder(t)

	request := sampleRequest()
	request.Site = nil
	request.App = &openrtb2.App{ID: "app-1"}

	requests, errs := bidder.MakeRequests(request, nil)

	assert.Empty(t, requests)
	assert.Len(t, errs, 1)
	assert.Equal(t, errortypes.BadInputErrorCode, errortypes.ReadCode(errs[0]))
	assert.EqualError(t, errs[0], "Adtarget doesn't support app requests")
}

func TestMakeRequestsOneRequestPerImp(t *testing.T) {
	bidder := buildBidder(t)

	requests, errs := bidder.MakeRequests(sampleRequest(), nil)

	assert.Empty(t, errs)
	assert.Len(t, requests, 2)
	assert.Equal(t, []string{"imp-1"}, requests[0].ImpIDs)
	assert.Equal(t, []string{"imp-2"}, requests[1].ImpIDs)

	for _, requestData := range requests {
		assert.Equal(t, http.MethodPost, requestData.Method)
		assert.Len(t, requestData.Payload.Imp, 1)
	}
}

func TestMakeRequestsSkipsImpWithoutAid(t *testing.T) {
	bidder := buildBidder(t)

	request := sampleRequest()
	request.Imp[0].Ext = json.RawMessage(`{"bidder":{}}`)

	requests, errs := bidder.MakeRequests(request, nil)

	assert.Len(t, requests, 1)
	assert.Equal(t, []string{"imp-2"}, requests[0].ImpIDs)
	assert.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "ignoring imp id=imp-1, no aid present")
}

func TestMakeBidsHonorsDeclaredBidType(t *testing.T) {
	bidder := buildBidder(t)

	request := sampleRequest()
	requests, errs := bidder.MakeRequests(request, nil)
	assert.Empty(t, errs)
	assert.Len(t, requests, 2)

	// imp-1 is a banner imp, but the endpoint declares the bid as video
	body := `{"id":"resp-1","seatbid":[{"bid":[{"id":"1","impid":"imp-1","ext":{"prebid":{"type":"video"}}}]}]}`
	bidderResponse, errs := bidder.MakeBids(request, requests[0], &adapters.ResponseData{
		StatusCode: http.StatusOK,
		Body:       []byte(body),
	})

	assert.Empty(t, errs)
	assert.Len(t, bidderResponse.Bids, 1)
	assert.Equal(t, openrtb_ext.BidTypeVideo, bidderResponse.Bids[0].BidType)
}

func TestMakeBidsFallsBackToImpMediaType(t *testing.T) {
	bidder := buildBidder(t)

	request := sampleRequest()
	requests, errs := bidder.MakeRequests(request, nil)
	assert.Empty(t, errs)
	assert.Len(t, requests, 2)

	body := `{"id":"resp-1","seatbid":[{"bid":[{"id":"1","impid":"imp-2"}]}]}`
	bidderResponse, errs := bidder.MakeBids(request, requests[1], &adapters.ResponseData{
		StatusCode: http.StatusOK,
		Body:       []byte(body),
	})

	assert.Empty(t, errs)
	assert.Len(t, bidderResponse.Bids, 1)
	assert.Equal(t, openrtb_ext.BidTypeVideo, bidderResponse.Bids[0].BidType)
}

func TestMakeBidsRejectsUnknownDeclaredType(t *testing.T) {
	bidder := buildBidder(t)

	request := sampleRequest()
	requests, errs := bidder.MakeRequests(request, nil)
	assert.Empty(t, errs)

	body := `{"id":"resp-1","seatbid":[{"bid":[{"id":"1","impid":"imp-1","ext":{"prebid":{"type":"popunder"}}}]}]}`
	bidderResponse, errs := bidder.MakeBids(request, requests[0], &adapters.ResponseData{
		StatusCode: http.StatusOK,
		Body:       []byte(body),
	})

	assert.Nil(t, bidderResponse)
	assert.Len(t, errs, 1)
	assert.Equal(t, errortypes.BadServerResponseErrorCode, errortypes.ReadCode(errs[0]))
}
