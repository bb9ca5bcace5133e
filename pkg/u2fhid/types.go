package u2fhid

// Message is a sequence of packets carrying one transport command.
type Message []*packet

// packet is a single 64-byte HID report.
type packet struct {
	cid          ChannelID
	command      Command
	sequence     byte
	length       uint16
	data         []byte
	continuation bool
}

// ChannelID identifies a logical channel multiplexed over one device.
type ChannelID [4]byte

// BroadcastCID is the channel used for the INIT handshake.
var BroadcastCID = ChannelID{0xFF, 0xFF, 0xFF, 0xFF}

// InitResponse carries the channel allocation returned by U2FHID_INIT.
type InitResponse struct {
	Nonce              []byte
	CID                ChannelID
	ProtocolVersion    byte
	MajorDeviceVersion byte
	MinorDeviceVersion byte
	BuildDeviceVersion byte
	CapabilityFlags    byte
}
