package adapters

import (
	"fmt"
	"net/http"

	"github.com/prebid/openrtb/v20/openrtb2"

	"github.com/bidforge/bidforge/config"
	"github.com/bidforge/bidforge/errortypes"
	"github.com/bidforge/bidforge/openrtb_ext"
	"github.com/bidforge/bidforge/util/jsonutil"
)

// RequestCreationStrategy determines how many outgoing requests a bidder builds
// per incoming BidRequest.
type RequestCreationStrategy int

const (
	// SingleRequest packs every valid impression into one outgoing request.
	SingleRequest RequestCreationStrategy = iota
	// RequestPerImp builds one outgoing request per valid impression.
	RequestPerImp
)

// OrtbHooks customizes the generic pipeline for one partner. Every field is
// optional; nil hooks fall back to the defaults documented on each field.
// E is the partner's request.imp[i].ext.bidder contract.
type OrtbHooks[E any] struct {
	// ValidateRequest rejects unsupported request shapes before any per-impression
	// work happens, e.g. a site-only partner refusing app traffic. A returned error
	// fails the whole request with a single bad input error. Default: accept.
	ValidateRequest func(request *openrtb2.BidRequest) error

	// ValidateImp rejects unsupported impression shapes, e.g. a banner-only partner
	// refusing audio impressions. A returned error skips that impression only.
	// Default: accept.
	ValidateImp func(imp *openrtb2.Imp) error

	// ValidateImpExt rejects malformed or incomplete bidder params after they were
	// decoded from imp.ext.bidder. A returned error skips that impression only.
	// Default: accept.
	ValidateImpExt func(impExt *E, imp *openrtb2.Imp) error

	// ModifyImp rewrites an impression using its decoded params, e.g. promoting a
	// placement id into imp.tagid. Works on a copy; the incoming request is never
	// touched. A returned error skips that impression only. Default: identity.
	ModifyImp func(imp openrtb2.Imp, impExt *E) (openrtb2.Imp, error)

	// ModifyRequest rewrites non-impression fields of the outgoing request using the
	// full set of surviving params, e.g. setting site.id from the first ext. The
	// outgoing request already carries the modified impressions. Default: no-op.
	ModifyRequest func(request *openrtb2.BidRequest, outgoing *openrtb2.BidRequest, impExts []*E)

	// ResolveBidType overrides media type resolution, for partners which signal the
	// type explicitly in the bid. A returned error discards the whole response with
	// a single bad server response error. Default: resolve from the outgoing
	// impression list by bid.impid, banner > video > native > audio.
	ResolveBidType func(bid *openrtb2.Bid, imps []openrtb2.Imp) (openrtb_ext.BidType, error)

	// BidCurrency declares the currency the partner bids in. Default: "USD".
	BidCurrency func() string
}

// OrtbBidder is a generic Bidder for partners which speak standard OpenRTB on the
// wire and differ only in their imp.ext contract and a handful of hooks. It is
// stateless: every call works on copies of its input and no state is shared
// between calls.
type OrtbBidder[E any] struct {
	endpoint string
	strategy RequestCreationStrategy
	hooks    OrtbHooks[E]
}

// NewOrtbBidder validates the partner configuration and returns the generic bidder.
// The endpoint may carry config macros but must resolve to a well-formed absolute
// URL; it is immutable afterwards.
func NewOrtbBidder[E any](endpoint string, strategy RequestCreationStrategy, hooks OrtbHooks[E]) (*OrtbBidder[E], error) {
	if err := config.ValidateAdapterEndpoint(endpoint); err != nil {
		return nil, err
	}

	if strategy != SingleRequest && strategy != RequestPerImp {
		return nil, fmt.Errorf("invalid request creation strategy: %d", strategy)
	}

	return &OrtbBidder[E]{
		endpoint: endpoint,
		strategy: strategy,
		hooks:    hooks,
	}, nil
}

type impWithExt[E any] struct {
	imp    openrtb2.Imp
	impExt *E
}

// MakeRequests validates the request and its impressions, decodes each
// impression's bidder params and assembles the outgoing requests. A bad
// impression is skipped and reported without blocking the others.
func (b *OrtbBidder[E]) MakeRequests(request *openrtb2.BidRequest, _ *ExtraRequestInfo) ([]*RequestData, []error) {
	if b.hooks.ValidateRequest != nil {
		if err := b.hooks.ValidateRequest(request); err != nil {
			return nil, []error{asBadInput(err)}
		}
	}

	var errs []error
	impsWithExts := make([]impWithExt[E], 0, len(request.Imp))
	for _, imp := range request.Imp {
		if b.hooks.ValidateImp != nil {
			if err := b.hooks.ValidateImp(&imp); err != nil {
				errs = append(errs, asBadInput(err))
				continue
			}
		}

		impExt, err := parseImpExt[E](imp.Ext)
		if err != nil {
			errs = append(errs, &errortypes.BadInput{Message: err.Error()})
			continue
		}

		if b.hooks.ValidateImpExt != nil {
			if err := b.hooks.ValidateImpExt(impExt, &imp); err != nil {
				errs = append(errs, asBadInput(err))
				continue
			}
		}

		if b.hooks.ModifyImp != nil {
			modified, err := b.hooks.ModifyImp(imp, impExt)
			if err != nil {
				errs = append(errs, asBadInput(err))
				continue
			}
			imp = modified
		}

		impsWithExts = append(impsWithExts, impWithExt[E]{imp: imp, impExt: impExt})
	}

	if len(impsWithExts) == 0 {
		errs = append(errs, &errortypes.BadInput{Message: "No valid impression in the bid request"})
		return nil, errs
	}

	requests, requestErrs := b.createRequests(request, impsWithExts)
	return requests, append(errs, requestErrs...)
}

func (b *OrtbBidder[E]) createRequests(request *openrtb2.BidRequest, impsWithExts []impWithExt[E]) ([]*RequestData, []error) {
	var errs []error

	switch b.strategy {
	case RequestPerImp:
		requests := make([]*RequestData, 0, len(impsWithExts))
		for i := range impsWithExts {
			requestData, err := b.makeRequest(request, impsWithExts[i:i+1])
			if err != nil {
				errs = append(errs, err)
				continue
			}
			requests = append(requests, requestData)
		}
		return requests, errs
	case SingleRequest:
		requestData, err := b.makeRequest(request, impsWithExts)
		if err != nil {
			return nil, append(errs, err)
		}
		return []*RequestData{requestData}, errs
	default:
		panic(fmt.Sprintf("invalid request creation strategy: %d", b.strategy))
	}
}

func (b *OrtbBidder[E]) makeRequest(request *openrtb2.BidRequest, impsWithExts []impWithExt[E]) (*RequestData, error) {
	outgoing := *request

	imps := make([]openrtb2.Imp, len(impsWithExts))
	impExts := make([]*E, len(impsWithExts))
	for i, impWithExt := range impsWithExts {
		imps[i] = impWithExt.imp
		impExts[i] = impWithExt.impExt
	}
	outgoing.Imp = imps

	if b.hooks.ModifyRequest != nil {
		b.hooks.ModifyRequest(request, &outgoing, impExts)
	}

	body, err := jsonutil.Marshal(&outgoing)
	if err != nil {
		return nil, err
	}

	return &RequestData{
		Method:  http.MethodPost,
		Uri:     b.endpoint,
		Body:    body,
		Headers: requestHeaders(),
		ImpIDs:  openrtb_ext.GetImpIDs(outgoing.Imp),
		Payload: &outgoing,
	}, nil
}

// MakeBids decodes the partner's response and converts each bid, resolving its
// media type against the impressions that were actually sent. A missing or empty
// seatbid array is "no bid", not an error.
func (b *OrtbBidder[E]) MakeBids(request *openrtb2.BidRequest, requestData *RequestData, responseData *ResponseData) (*BidderResponse, []error) {
	if IsResponseStatusCodeNoContent(responseData) {
		return nil, nil
	}

	if err := CheckResponseStatusCodeForErrors(responseData); err != nil {
		return nil, []error{err}
	}

	var response openrtb2.BidResponse
	if err := jsonutil.Unmarshal(responseData.Body, &response); err != nil {
		return nil, []error{&errortypes.BadServerResponse{Message: err.Error()}}
	}

	if len(response.SeatBid) == 0 {
		return NewBidderResponse(), nil
	}

	imps := request.Imp
	if requestData != nil && requestData.Payload != nil {
		imps = requestData.Payload.Imp
	}

	bidderResponse := NewBidderResponseWithBidsCapacity(len(imps))
	if b.hooks.BidCurrency != nil {
		bidderResponse.Currency = b.hooks.BidCurrency()
	}

	for _, seatBid := range response.SeatBid {
		for i := range seatBid.Bid {
			bid := &seatBid.Bid[i]

			bidType, err := b.resolveBidType(bid, imps)
			if err != nil {
				return nil, []error{asBadServerResponse(err)}
			}

			bidderResponse.Bids = append(bidderResponse.Bids, &TypedBid{
				Bid:     bid,
				BidType: bidType,
			})
		}
	}

	return bidderResponse, nil
}

func (b *OrtbBidder[E]) resolveBidType(bid *openrtb2.Bid, imps []openrtb2.Imp) (openrtb_ext.BidType, error) {
	if b.hooks.ResolveBidType != nil {
		return b.hooks.ResolveBidType(bid, imps)
	}
	return BidTypeFromImps(bid.ImpID, imps), nil
}

// BidTypeFromImps resolves a bid's media type from the impression it answers,
// found by id in the outgoing impression list: banner > video > native > audio.
// Bids referencing an unknown impression resolve to banner.
//
// The scan returns early only on a banner match and otherwise keeps the last
// non-banner type seen across matching impressions. With unique impression ids
// both policies agree; the scan order is kept for wire compatibility with
// upstreams that send duplicates.
func BidTypeFromImps(impID string, imps []openrtb2.Imp) openrtb_ext.BidType {
	bidType := openrtb_ext.BidTypeBanner
	for _, imp := range imps {
		if imp.ID == impID {
			if imp.Banner != nil {
				return bidType
			} else if imp.Video != nil {
				bidType = openrtb_ext.BidTypeVideo
			} else if imp.Native != nil {
				bidType = openrtb_ext.BidTypeNative
			} else if imp.Audio != nil {
				bidType = openrtb_ext.BidTypeAudio
			}
		}
	}
	return bidType
}

func parseImpExt[E any](ext []byte) (*E, error) {
	var bidderExt ExtImpBidder
	if err := jsonutil.Unmarshal(ext, &bidderExt); err != nil {
		return nil, err
	}

	impExt := new(E)
	if err := jsonutil.Unmarshal(bidderExt.Bidder, impExt); err != nil {
		return nil, err
	}

	return impExt, nil
}

func requestHeaders() http.Header {
	headers := http.Header{}
	headers.Add("Content-Type", "application/json;charset=utf-8")
	headers.Add("Accept", "application/json")
	headers.Add("x-openrtb-version", "2.5")
	return headers
}

// asBadInput keeps hook errors which already carry an error code and wraps the
// rest as bad input.
func asBadInput(err error) error {
	if _, ok := err.(errortypes.Coder); ok {
		return err
	}
	return &errortypes.BadInput{Message: err.Error()}
}

// asBadServerResponse keeps hook errors which already carry an error code and
// wraps the rest as bad server response.
func asBadServerResponse(err error) error {
	if _, ok := err.(errortypes.Coder); ok {
		return err
	}
	return &errortypes.BadServerResponse{Message: err.Error()}
}
