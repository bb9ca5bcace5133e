package u2fhid

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/samber/lo"
)

// NewMessage splits data across an init packet and as many continuation
// packets as needed.
func NewMessage(cid ChannelID, cmd Command, data []byte) (Message, error) {
	if len(data) > maxMessageSize {
		return nil, ErrMessageTooLarge
	}

	msg := make(Message, 0)
	msg = append(msg, &packet{
		cid:     cid,
		command: cmd,
		length:  uint16(len(data)),
		// an init packet holds packetSize-7 data bytes
		data: lo.Slice(data, 0, packetSize-7),
	})

	if len(data) > packetSize-7 {
		for i, chunk := range lo.Chunk(data[packetSize-7:], packetSize-5) {
			msg = append(msg, &packet{
				cid:          cid,
				sequence:     byte(i),
				data:         chunk,
				continuation: true,
			})
		}
	}

	return msg, nil
}

// Command returns the transport command of the message's init packet.
func (m Message) Command() Command {
	return m[0].command
}

// Data reassembles the payload across packets, truncated to the length
// declared in the init packet.
func (m Message) Data() []byte {
	data := make([]byte, 0, m[0].length)
	for _, p := range m {
		data = append(data, p.data...)
	}

	if len(data) > int(m[0].length) {
		data = data[:m[0].length]
	}

	return data
}

// WriteTo writes the message to the device, one HID report per packet.
func (m Message) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, p := range m {
		// Each report must reach the device in a single write.
		buf := bufio.NewWriterSize(w, packetSize+1)

		// Report ID, always zero.
		if err := buf.WriteByte(0x00); err != nil {
			return total, err
		}
		total++

		n, err := p.writeTo(buf)
		if err != nil {
			return total, err
		}
		total += n

		if err := buf.Flush(); err != nil {
			return total, err
		}
	}

	return total, nil
}

func (p *packet) writeTo(w io.Writer) (int64, error) {
	header := make([]byte, 0, 7)
	header = append(header, p.cid[:]...)

	if p.continuation {
		header = append(header, p.sequence)
	} else {
		header = append(header, byte(p.command)|INIT_PACKET_BIT)
		header = binary.BigEndian.AppendUint16(header, p.length)
	}

	hn, err := w.Write(header)
	if err != nil {
		return int64(hn), err
	}

	dn, err := w.Write(p.data)
	if err != nil {
		return int64(hn + dn), err
	}

	return int64(hn + dn), nil
}

// ReadFrom reads one complete message from the device, consuming
// continuation packets until the declared length is satisfied.
func (m *Message) ReadFrom(r io.Reader) (int64, error) {
	var read int64

	remaining := -1
	for remaining != 0 {
		report := make([]byte, packetSize)
		n, err := io.ReadFull(r, report)
		read += int64(n)
		if err != nil {
			return read, err
		}

		p := packet{cid: ChannelID(report[:4])}

		if report[4]&INIT_PACKET_BIT != 0 {
			p.command = Command(report[4] &^ INIT_PACKET_BIT)
			p.length = binary.BigEndian.Uint16(report[5:7])
			remaining = int(p.length)
			p.data = report[7:min(7+remaining, packetSize)]
		} else {
			p.sequence = report[4]
			p.continuation = true
			if remaining < 0 {
				return read, ErrInvalidResponseMessage
			}
			p.data = report[5:min(5+remaining, packetSize)]
		}

		remaining -= len(p.data)
		*m = append(*m, &p)
	}

	return read, nil
}
