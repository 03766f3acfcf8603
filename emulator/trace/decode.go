/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package trace

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

var LayerTypePS2 = gopacket.RegisterLayerType(
	2000,
	gopacket.LayerTypeMetadata{Name: "PS2", Decoder: gopacket.DecodeFunc(decodePS2)},
)

// PS2 is one byte on the keyboard bus.
type PS2 struct {
	layers.BaseLayer
	FromHost bool
	Value    byte
}

func (p *PS2) LayerType() gopacket.LayerType {
	return LayerTypePS2
}

func (p *PS2) String() string {
	if p.FromHost {
		return fmt.Sprintf("host -> 0x%02X", p.Value)
	}
	return fmt.Sprintf("0x%02X <- device", p.Value)
}

func decodePS2(data []byte, pb gopacket.PacketBuilder) error {
	if len(data) < 2 {
		return errors.New("PS2 packet too short")
	}
	p := &PS2{
		BaseLayer: layers.BaseLayer{Contents: data[:2], Payload: data[2:]},
		FromHost:  data[0] == HostToDevice,
		Value:     data[1],
	}
	pb.AddLayer(p)
	return nil
}

// Record is one decoded trace packet.
type Record struct {
	At time.Time
	PS2
}

// Read decodes every packet in a trace.
func Read(r io.Reader) ([]Record, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, err
	}
	if lt := pr.LinkType(); lt != LinkType {
		return nil, fmt.Errorf("unexpected link type: %v", lt)
	}

	var records []Record
	for {
		data, ci, err := pr.ReadPacketData()
		if err == io.EOF {
			return records, nil
		} else if err != nil {
			return records, err
		}

		pkt := gopacket.NewPacket(data, LayerTypePS2, gopacket.Default)
		if el := pkt.ErrorLayer(); el != nil {
			return records, el.Error()
		}
		if l, ok := pkt.Layer(LayerTypePS2).(*PS2); ok {
			records = append(records, Record{At: ci.Timestamp, PS2: *l})
		}
	}
}
