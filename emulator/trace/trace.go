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
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// LinkType is DLT_USER0. Each packet is a direction byte followed by the
// byte seen on the bus.
const LinkType = layers.LinkType(147)

const (
	DeviceToHost = 0
	HostToDevice = 1
)

// Writer records bus bytes to a pcap stream.
type Writer struct {
	sync.Mutex

	w      *pcapgo.Writer
	closer io.Closer
	start  time.Time
}

// Create opens a pcap file at path.
func Create(path string) (*Writer, error) {
	fp, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(fp, time.Now())
	if err != nil {
		fp.Close()
		return nil, err
	}
	w.closer = fp
	return w, nil
}

// NewWriter writes the pcap file header to w. Packet timestamps are
// relative to start.
func NewWriter(w io.Writer, start time.Time) (*Writer, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(65536, LinkType); err != nil {
		return nil, fmt.Errorf("could not write pcap header: %w", err)
	}
	return &Writer{w: pw, start: start}, nil
}

func (w *Writer) RecordByte(fromHost bool, b byte, at time.Duration) error {
	dir := byte(DeviceToHost)
	if fromHost {
		dir = HostToDevice
	}
	data := []byte{dir, b}

	ci := gopacket.CaptureInfo{
		Timestamp:     w.start.Add(at),
		CaptureLength: len(data),
		Length:        len(data),
	}

	w.Lock()
	defer w.Unlock()
	return w.w.WritePacket(ci, data)
}

func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
