package openrtb_ext

import (
	"testing"

	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/stretchr/testify/assert"
)

func TestParseBidType(t *testing.T) {
	tests := []struct {
		input         string
		expected      BidType
		errorExpected bool
	}{
		{input: "banner", expected: BidTypeBanner},
		{input: "video", expected: BidTypeVideo},
		{input: "audio", expected: BidTypeAudio},
		{input: "native", expected: BidTypeNative},
		{input: "", errorExpected: true},
		{input: "Banner", errorExpected: true},
		{input: "popunder", errorExpected: true},
	}

	for _, test := range tests {
		bidType, err := ParseBidType(test.input)
		if test.errorExpected {
			assert.Error(t, err, "input: %s", test.input)
			continue
		}
		assert.NoError(t, err, "input: %s", test.input)
		assert.Equal(t, test.expected, bidType, "input: %s", test.input)
	}
}

func TestBidTypes(t *testing.T) {
	assert.ElementsMatch(t, []BidType{BidTypeBanner, BidTypeVideo, BidTypeAudio, BidTypeNative}, BidTypes())
}

func TestGetImpIDs(t *testing.T) {
	imps := []openrtb2.Imp{{ID: "imp-1"}, {ID: "imp-2"}}
	assert.Equal(t, []string{"imp-1", "imp-2"}, GetImpIDs(imps))
	assert.Empty(t, GetImpIDs(nil))
}

func TestGetBidderName(t *testing.T) {
	name, ok := GetBidderName("adtelligent")
	assert.True(t, ok)
	assert.Equal(t, BidderAdtelligent, name)

	_, ok = GetBidderName("notabidder")
	assert.False(t, ok)
}
