package pipeline

import "github.com/user/keysnap/pkg/ports"

// EncoderTimeBase picks the time base the re-encode inherits from the
// decoder. Encoder pts count frames, so the result must be about one tick
// per frame: the codec time base when set, otherwise the inverse of the
// first valid frame rate, otherwise the stream time base.
func EncoderTimeBase(codec ports.Rational, frameRates []ports.Rational, stream ports.Rational) ports.Rational {
	if codec.Valid() {
		return codec
	}
	for _, fr := range frameRates {
		if fr.Valid() {
			return ports.Rational{Num: fr.Den, Den: fr.Num}
		}
	}
	return stream
}
