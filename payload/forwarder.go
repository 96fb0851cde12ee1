package payload

import (
	"github.com/FabianSimtlix/bitgo-account-lib/types"
)

// EncodeCreateForwarder returns the call data that makes a wallet deploy a forwarder.
func EncodeCreateForwarder(n types.Network) ([]byte, error) {
	return pack(Selector(n.ForwarderMethod), methodArgumentTypes(n.ForwarderMethod))
}

// DecodeCreateForwarder checks that data is exactly a forwarder creation call.
func DecodeCreateForwarder(n types.Network, data []byte) error {
	_, err := unpack(Selector(n.ForwarderMethod), methodArgumentTypes(n.ForwarderMethod), data)
	return err
}
