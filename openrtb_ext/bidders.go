package openrtb_ext

// BidderName refers to a core bidder id or an alias id.
type BidderName string

const (
	BidderAdtarget    BidderName = "adtarget"
	BidderAdtelligent BidderName = "adtelligent"
)

var bidderMap = map[string]BidderName{
	"adtarget":    BidderAdtarget,
	"adtelligent": BidderAdtelligent,
}

// GetBidderName returns the BidderName for the given string, if it exists.
// The second argument is true if the name was valid, and false otherwise.
func GetBidderName(name string) (BidderName, bool) {
	bidderName, ok := bidderMap[name]
	return bidderName, ok
}
