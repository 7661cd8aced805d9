package adapters

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/bidforge/bidforge/config"
	"github.com/bidforge/bidforge/errortypes"
	"github.com/bidforge/bidforge/openrtb_ext"
)

// Bidder describes how to connect to an external demand partner, translating an
// openrtb2.BidRequest into one or more HTTP calls and the partner's HTTP response
// back into bids.
//
// Implementations must be safe for concurrent use: many auctions run at once, and
// a single Bidder instance serves all of them. No shared mutable state allowed.
type Bidder interface {
	// MakeRequests makes the HTTP requests which should be made to fetch bids.
	//
	// Bidder implementations can assume that the incoming BidRequest has at least one Imp.
	// The incoming request is shared across the auction and must not be mutated;
	// build modified copies instead.
	//
	// MakeRequests may return a non-nil list alongside errors. Errors should describe
	// situations which make the request (or part of it) "less than ideal", such as
	// impressions with malformed bidder parameters that had to be skipped. These
	// errors will be user-facing, so the messages should help publishers understand
	// what might account for "bad" bids.
	MakeRequests(request *openrtb2.BidRequest, reqInfo *ExtraRequestInfo) ([]*RequestData, []error)

	// MakeBids unpacks the server's response into bids.
	//
	// The requestData is the RequestData returned by MakeRequests which produced this
	// response; the orchestrator guarantees the pairing. MakeBids may return a non-nil
	// BidderResponse alongside errors, although the generic pipeline never produces
	// partially-decoded bids.
	MakeBids(request *openrtb2.BidRequest, requestData *RequestData, responseData *ResponseData) (*BidderResponse, []error)
}

// Builder constructs the Bidder implementation for a partner. All configuration is
// fixed for the lifetime of the returned value.
type Builder func(bidderName openrtb_ext.BidderName, cfg config.Adapter, server config.Server) (Bidder, error)

// ExtraRequestInfo carries auction-level data which some bidders need while building requests.
type ExtraRequestInfo struct {
	GlobalPrivacyControlHeader string
}

// RequestData packages together the fields needed to make an http.Request, plus the
// outgoing request snapshot used to build it.
type RequestData struct {
	Method  string
	Uri     string
	Body    []byte
	Headers http.Header
	ImpIDs  []string

	// Payload is the outgoing BidRequest serialized into Body. It is retained so that
	// MakeBids can resolve bid types against the impressions which were actually sent,
	// which may differ from the incoming request after per-bidder modifications.
	// Never re-serialized, only referenced.
	Payload *openrtb2.BidRequest
}

// ResponseData packages together information from the server's http.Response.
type ResponseData struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// TypedBid packages the openrtb2.Bid with any bidder-specific information that
// the auction layer needs from it.
type TypedBid struct {
	Bid          *openrtb2.Bid
	BidType      openrtb_ext.BidType
	BidVideo     *openrtb_ext.ExtBidPrebidVideo
	DealPriority int
}

// BidderResponse carries all the bids a bidder wishes to make for a request,
// along with the currency those bids are quoted in.
type BidderResponse struct {
	Currency string
	Bids     []*TypedBid
}

// NewBidderResponseWithBidsCapacity create a new BidderResponse initialising the
// bids array capacity and the default currency value to "USD".
func NewBidderResponseWithBidsCapacity(bidsCapacity int) *BidderResponse {
	return &BidderResponse{
		Currency: "USD",
		Bids:     make([]*TypedBid, 0, bidsCapacity),
	}
}

// NewBidderResponse create a new BidderResponse initialising the bids array
// and the default currency value to "USD".
func NewBidderResponse() *BidderResponse {
	return NewBidderResponseWithBidsCapacity(0)
}

// ExtImpBidder can be used by bidders to unmarshal any request.imp[i].ext.
type ExtImpBidder struct {
	Prebid *openrtb_ext.ExtImpPrebid `json:"prebid"`

	// Bidder contains the bidder-specific extension. Each bidder should unmarshal
	// this using their corresponding openrtb_ext.ExtImp{Bidder} struct.
	//
	// For example, if this Bidder was "adtelligent", then this field would be
	// unmarshalled into an openrtb_ext.ExtImpAdtelligent.
	Bidder json.RawMessage `json:"bidder"`
}

// IsResponseStatusCodeNoContent returns true if the response status code is 204.
func IsResponseStatusCodeNoContent(response *ResponseData) bool {
	return response.StatusCode == http.StatusNoContent
}

// CheckResponseStatusCodeForErrors returns an error if the response status code
// is not 200.
func CheckResponseStatusCodeForErrors(response *ResponseData) error {
	if response.StatusCode == http.StatusBadRequest {
		return &errortypes.BadInput{
			Message: fmt.Sprintf("Unexpected status code: %d. Run with request.debug = 1 for more info", response.StatusCode),
		}
	}

	if response.StatusCode != http.StatusOK {
		return &errortypes.BadServerResponse{
			Message: fmt.Sprintf("Unexpected status code: %d. Run with request.debug = 1 for more info", response.StatusCode),
		}
	}

	return nil
}
